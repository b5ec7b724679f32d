package cloudinary

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cliptube/user_service/pkg/utils"
)

const (
	maxUploadSize = 10 * 1024 * 1024
	maxImageWidth = 1200
	jpgQuality    = 85
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

// UploadLocalFile pushes the staged file at localPath to Cloudinary
// and returns the secure URL. An empty path returns ("", nil). On any
// failure the staged file is removed so failed uploads never leave
// temp files behind.
func (u *CloudinaryUploader) UploadLocalFile(ctx context.Context, folder, localPath string) (string, error) {
	localPath = strings.TrimSpace(localPath)
	if localPath == "" {
		return "", nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		removeLocal(localPath)
		return "", err
	}
	b, err := utils.ReadAllLimit(f, maxUploadSize)
	f.Close()
	if err != nil {
		removeLocal(localPath)
		return "", err
	}

	// Oversized camera uploads are common; normalize when the payload
	// decodes as an image, pass anything else through untouched.
	if norm, normErr := utils.NormalizeToJPG(b, maxImageWidth, jpgQuality); normErr == nil {
		b = norm
	}

	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		log.Printf("cloudinary upload error: %v", err)
		removeLocal(localPath)
		return "", err
	}

	return res.SecureURL, nil
}

func removeLocal(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
}
