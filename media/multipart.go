package media

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
)

// maxPartMemory caps how much of each multipart part is read into memory.
const maxPartMemory = 32 << 20

// DecodeMultipart parses a multipart/form-data body. Parts carrying a
// filename become File values; plain parts become strings. The caller
// separates the two through Decoded.Files and Decoded.Map.
func DecodeMultipart(body io.Reader, contentType string) (*Decoded, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
	}
	boundary, ok := params["boundary"]
	if !ok {
		return nil, &DecodeError{ContentType: contentType, Reason: "missing multipart boundary"}
	}

	values := make(map[string]any)
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
		}

		content, err := io.ReadAll(io.LimitReader(part, maxPartMemory))
		part.Close()
		if err != nil {
			return nil, &DecodeError{ContentType: contentType, Reason: err.Error()}
		}

		if filename := part.FileName(); filename != "" {
			values[part.FormName()] = File{
				Filename:    filename,
				ContentType: part.Header.Get("Content-Type"),
				Content:     content,
			}
		} else {
			values[part.FormName()] = string(content)
		}
	}
	return &Decoded{values: values}, nil
}
