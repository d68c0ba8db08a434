package sponsorboard

import (
	"embed"
	"io/fs"
)

//go:embed public
var publicFiles embed.FS

// PublicFS serves the static assets under /public.
var PublicFS = mustSub(publicFiles, "public")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
