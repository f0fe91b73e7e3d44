// Package view はHTMLテンプレートのレンダリングを提供する。
//
// テンプレートはバイナリに埋め込み、ビュー名とデータバッグを受け取って
// HTMLドキュメントを生成する。各ページはlayout.htmlを共有する。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Data はテンプレートに渡すデータバッグ。
type Data map[string]any

// Renderer はビュー名とデータバッグからHTMLを生成する。
type Renderer struct {
	templates map[string]*template.Template
}

// New は埋め込みテンプレートを全て解析したRendererを生成する。
// テンプレートの解析エラーは起動時に検出する。
func New() (*Renderer, error) {
	return newFromFS(templatesFS, "templates")
}

// newFromFS は指定ファイルシステムからテンプレートを解析する。
func newFromFS(fsys fs.FS, dir string) (*Renderer, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates dir: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.html" || !strings.HasSuffix(name, ".html") {
			continue
		}

		t, err := template.ParseFS(fsys, dir+"/layout.html", dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		templates[strings.TrimSuffix(name, ".html")] = t
	}

	return &Renderer{templates: templates}, nil
}

// Render は指定ビューをレンダリングしてレスポンスに書き込む。
// テンプレート実行エラー時は中途半端な出力を避けるため、
// バッファに描画してから書き込む。
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Data) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown view: %s", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render view %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
