package dune

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// staticHandler serves files from root under the static route. Requests
// resolving to directories answer 404: directory contents are never
// listed.
func (a *API) staticHandler(root fs.FS) HandlerFunc {
	return func(ctx context.Context, req *Request, resp *Response) error {
		name, _ := req.Param("path").(string)
		name = path.Clean(name)
		if name == "" || name == "." || strings.HasPrefix(name, "..") {
			resp.StatusCode = http.StatusNotFound
			return nil
		}

		f, err := root.Open(name)
		if err != nil {
			resp.StatusCode = http.StatusNotFound
			return nil
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil || stat.IsDir() {
			resp.StatusCode = http.StatusNotFound
			return nil
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return err
		}

		mimetype := mime.TypeByExtension(path.Ext(name))
		if mimetype == "" {
			mimetype = "application/octet-stream"
		}
		resp.Content(content, mimetype)
		return nil
	}
}
