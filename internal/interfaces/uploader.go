package interfaces

import "context"

// Uploader pushes a locally staged file to the media store and returns
// its stable URL. An empty localPath yields ("", nil); on failure the
// local file is removed and the error returned.
type Uploader interface {
	UploadLocalFile(ctx context.Context, folder, localPath string) (string, error)
}
