package storage

import "avito-harvester/models"

// DatasetWriter is the interface any output sink must satisfy.
type DatasetWriter interface {
	Write(ds *models.Dataset, path string) error
}
