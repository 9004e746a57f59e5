package gstr

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// ContentTypeZip is the media type of Archive output.
const ContentTypeZip = "application/zip"

// ArchiveName returns "<code>_GSTR-1_Outputs.zip".
func ArchiveName(code string) string {
	return code + "_GSTR-1_Outputs.zip"
}

// Archive bundles files into one zip, in order. modified stamps every
// entry.
func Archive(name string, files []File, modified time.Time) (File, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return File{}, fmt.Errorf("adding %s to archive: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return File{}, fmt.Errorf("writing %s to archive: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return File{}, fmt.Errorf("closing archive: %w", err)
	}
	return File{Name: name, ContentType: ContentTypeZip, Data: buf.Bytes()}, nil
}
