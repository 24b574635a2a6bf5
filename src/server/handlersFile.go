package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	app "socialserv/src/app"
)

type FileHandler struct {
	store app.FileStore
}

func NewFileHandler(store app.FileStore) *FileHandler {
	return &FileHandler{store: store}
}

// Upload accepts a single multipart file under the "file" field, stores
// it under a timestamp-based name and returns its public URL.
func (f *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "can not find file in request: " + err.Error()})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to read file: " + err.Error()})
		return
	}
	defer file.Close()

	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "." + fileExtension(fileHeader.Filename)
	url, err := f.store.Save(name, file, fileHeader.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store file: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// fileExtension keeps everything after the first dot, dropping empty
// segments so multi-dot names like "a...tar.gz" come out as "tar.gz".
func fileExtension(filename string) string {
	segments := strings.Split(filename, ".")
	if len(segments) < 2 {
		return ""
	}
	kept := make([]string, 0, len(segments)-1)
	for _, s := range segments[1:] {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ".")
}
