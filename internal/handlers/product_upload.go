package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/images"
	"perfume-backend/internal/models"
)

const maxMultipartMemory = 32 << 20

var (
	errMissingProductPart = errors.New("product part is required")
	errInvalidProductPart = errors.New("product part is not valid JSON")
)

// multipartProduct is a "product" JSON part plus up to four "images" parts.
type multipartProduct struct {
	Product productRequest
	Files   []images.File
}

func parseMultipartProductRequest(c *gin.Context) (multipartProduct, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return multipartProduct{}, err
	}
	form := c.Request.MultipartForm

	raw, err := productPart(form)
	if err != nil {
		return multipartProduct{}, err
	}

	var out multipartProduct
	if err := json.Unmarshal(raw, &out.Product); err != nil {
		return multipartProduct{}, fmt.Errorf("%w: %v", errInvalidProductPart, err)
	}

	headers := form.File["images"]
	if len(headers) > models.MaxProductImages {
		logger.Info("extra images ignored", "received", len(headers), "kept", models.MaxProductImages)
		headers = headers[:models.MaxProductImages]
	}
	for _, header := range headers {
		file, err := readUpload(header)
		if err != nil {
			return multipartProduct{}, err
		}
		out.Files = append(out.Files, file)
	}
	return out, nil
}

// productPart accepts the JSON either as a plain form value or as a file part
// with an application/json content type.
func productPart(form *multipart.Form) ([]byte, error) {
	if values := form.Value["product"]; len(values) > 0 && strings.TrimSpace(values[0]) != "" {
		return []byte(values[0]), nil
	}
	if headers := form.File["product"]; len(headers) > 0 {
		f, err := headers[0].Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return nil, errMissingProductPart
}

func readUpload(header *multipart.FileHeader) (images.File, error) {
	f, err := header.Open()
	if err != nil {
		return images.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return images.File{}, err
	}
	return images.File{
		Name:        header.Filename,
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

func respondMultipartError(c *gin.Context, route string, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	respondWithError(c, status, route, apperror.KindValidation, err.Error())
}
