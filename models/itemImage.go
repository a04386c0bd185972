package models

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"path/filepath"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"github.com/disintegration/imaging"
)

type ItemImage struct {
	ID          int       `gorm:"primary_key" json:"id"`
	ItemId      int       `gorm:"not null;index" json:"item_id"`
	StoragePath string    `gorm:"size:255;not null" json:"storage_path"`
	IsPrimary   *bool     `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type UploadResponse struct {
	StoragePath  string `json:"storage_path"`
	ImageUrl     string `json:"image_url"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

func AddItemImage(ctx context.Context, itemId int, storagePath string) (*ItemImage, error) {
	if storagePath == "" {
		return nil, errors.New("storage path is required")
	}
	if err := utils.ValidateResourceId[Item](ctx, itemId); err != nil {
		return nil, err
	}

	image := ItemImage{
		ItemId:      itemId,
		StoragePath: storagePath,
		IsPrimary:   utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func DeleteItemImage(ctx context.Context, imageId int) error {
	image, err := utils.FetchModel[ItemImage](ctx, imageId)
	if err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&image).Error; err != nil {
		return err
	}

	// blob removal is best effort, the row is the source of truth
	if objectName := utils.ExtractObjectKeyFromURL(image.StoragePath); objectName != "" {
		if err := utils.DeleteImageFromGCS(ctx, objectName); err != nil {
			logger := config.GetLogger()
			config.LogError(logger, "itemImage", "DeleteItemImage", "blob delete failed", image.StoragePath, err)
		}
	}
	return nil
}

func GetItemImages(ctx context.Context, itemId int) ([]*ItemImage, error) {
	db := config.GetDB()
	var images []*ItemImage
	err := db.WithContext(ctx).
		Where("item_id = ?", itemId).
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// SetPrimaryImage marks one image primary and clears the flag on its
// siblings, keeping at most one primary per item.
func SetPrimaryImage(ctx context.Context, imageId int) (*ItemImage, error) {
	image, err := utils.FetchModel[ItemImage](ctx, imageId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&ItemImage{}).
		Where("item_id = ? AND id <> ?", image.ItemId, image.ID).
		Update("IsPrimary", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&image).Update("IsPrimary", true).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return image, nil
}

const photoStoragePrefix = "intake-photos/"

// UploadItemPhoto stores the original photo and a 200px thumbnail, returning
// the storage path plus public URLs.
func UploadItemPhoto(ctx context.Context, filename string, file io.Reader) (*UploadResponse, error) {
	if file == nil {
		return nil, errors.New("nil file provided")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		return nil, errors.New("file has no extension")
	}

	uniqueFilename := utils.GenerateUniqueFilename() + ext
	originalObjectName := photoStoragePrefix + uniqueFilename
	thumbnailObjectName := photoStoragePrefix + "thumbnails/" + uniqueFilename

	imageData := base64.StdEncoding.EncodeToString(data)
	if err := utils.SaveImageToGCS(ctx, originalObjectName, imageData); err != nil {
		return nil, err
	}

	thumbnailData, err := generateThumbnail(data)
	if err != nil {
		return nil, err
	}
	thumbnailImageData := base64.StdEncoding.EncodeToString(thumbnailData)
	if err := utils.SaveImageToGCS(ctx, thumbnailObjectName, thumbnailImageData); err != nil {
		return nil, err
	}

	return &UploadResponse{
		StoragePath:  originalObjectName,
		ImageUrl:     utils.BuildObjectAccessURL(originalObjectName),
		ThumbnailUrl: utils.BuildObjectAccessURL(thumbnailObjectName),
	}, nil
}

func generateThumbnail(originalData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(originalData))
	if err != nil {
		return nil, err
	}

	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var thumbnailBuffer bytes.Buffer
	err = imaging.Encode(&thumbnailBuffer, thumbnail, imaging.JPEG)
	if err != nil {
		return nil, err
	}

	return thumbnailBuffer.Bytes(), nil
}
