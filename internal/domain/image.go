package domain

// Image — изображение товара, загружаемое в объектное хранилище.
type Image struct {
	ObjectKey string
	Bytes     []byte
	MimeType  *string
	Size      *int64
}

func NewImage(objectKey string, data []byte, mimeType string) *Image {
	size := int64(len(data))
	return &Image{
		ObjectKey: objectKey,
		Bytes:     data,
		MimeType:  &mimeType,
		Size:      &size,
	}
}
