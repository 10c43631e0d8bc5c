package gallery

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/adampresley/imagegallery/cmd/website/internal/viewmodels"
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	fragmentTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
)

/*
RenderFragment executes the gallery fragment template. The same markup is
embedded in the full page and returned alone to htmx requests.
*/
func RenderFragment(view viewmodels.GalleryPage) (template.HTML, error) {
	var (
		err error
		b   strings.Builder
	)

	if err = fragmentTemplates.ExecuteTemplate(&b, "gallery", view); err != nil {
		return "", fmt.Errorf("error rendering gallery fragment for page %d: %w", view.Page, err)
	}

	return template.HTML(b.String()), nil
}
