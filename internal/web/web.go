// Package web embeds the HTML templates and static assets of the form pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates static
var uiFS embed.FS

// Templates parses every embedded template into one set. Pages are looked
// up by their defined name, e.g. "page.video_list".
func Templates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"watchURL": func(code string) string {
			return "https://www.youtube.com/watch?v=" + code
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}
		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Static returns the static asset tree rooted at its top directory.
func Static() (fs.FS, error) {
	return fs.Sub(uiFS, "static")
}
