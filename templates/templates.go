package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// DressUp is the dress-up page: the stacked character layers and the item buttons
var DressUp = template.Must(template.ParseFS(files, "dressup.html"))
