package stores

import (
	"os"

	"github.com/sirupsen/logrus"

	"kbcloud/core"
	"kbcloud/stores/filesystem"
	"kbcloud/stores/memory"
	"kbcloud/stores/qiniu"
	"kbcloud/stores/s3"
	"kbcloud/stores/sqlite"
)

// GetStore builds the blob store backend for the given credentials. The
// backend kind comes from STORAGE_TYPE; the default is the token-signed
// object storage service the credentials describe.
func GetStore(creds core.StorageCredentials) (core.BlobStore, error) {
	storageType := os.Getenv("STORAGE_TYPE")

	storageField := logrus.Fields{
		"storageType": storageType,
		"filename":    creds.Filename,
	}

	var (
		store core.BlobStore
		err   error
	)
	switch storageType {
	case "filesystem":
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data"
		}
		storageField["basePath"] = basePath
		store, err = filesystem.NewStore(basePath, creds.Filename)
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "kbcloud.db"
		}
		storageField["dataSourceName"] = dataSourceName
		store, err = sqlite.NewStore(dataSourceName, creds.Filename)
	case "s3":
		storageField["bucket"] = creds.Bucket
		store, err = s3.NewStore(creds.Bucket, creds.Filename)
	case "memory":
		store = memory.NewStore()
	default:
		storageField["storageType"] = "qiniu"
		store = qiniu.NewStore(creds)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
