package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rniedson/brbandeiras-api/config"
	"github.com/rniedson/brbandeiras-api/models"
	"github.com/rniedson/brbandeiras-api/utils"
)

// submitRetries bounds the retry loop when the unique index on
// (pedido_id, versao) reports a conflicting concurrent submission from
// another process.
const submitRetries = 3

// isUniqueViolation matches the duplicate-key errors of both supported
// drivers (postgres "duplicate key value violates unique constraint",
// sqlite "UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// resolveAssignment enforces the single-responsible-designer rule. The first
// submitting designer takes the order; afterwards only the assignee or a
// manager may submit. Runs inside the version-insert transaction so a first
// submission that fails does not bind the designer to the order.
func resolveAssignment(tx *gorm.DB, order *models.Order, actor *models.User) error {
	var assignment models.ArtworkAssignment
	err := tx.Where("pedido_id = ?", order.ID).First(&assignment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errDatabase(err)
		}
		if actor.Perfil != models.RoleArteFinalista {
			return errPermissionDenied("only a designer may open the artwork work for an order")
		}
		assignment = models.ArtworkAssignment{OrderID: order.ID, DesignerID: actor.ID}
		if err := tx.Create(&assignment).Error; err != nil {
			return errDatabase(err)
		}
		return nil
	}

	if assignment.DesignerID != actor.ID && !actor.IsGestor() {
		return errPermissionDenied(fmt.Sprintf("order %s is assigned to another designer", order.Numero))
	}
	return nil
}

// checkSubmitPermission is the read-only variant of resolveAssignment, used
// to reject an unauthorized submitter before any file is written.
func checkSubmitPermission(db *gorm.DB, order *models.Order, actor *models.User) error {
	var assignment models.ArtworkAssignment
	err := db.Where("pedido_id = ?", order.ID).First(&assignment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errDatabase(err)
		}
		if actor.Perfil != models.RoleArteFinalista {
			return errPermissionDenied("only a designer may open the artwork work for an order")
		}
		return nil
	}

	if assignment.DesignerID != actor.ID && !actor.IsGestor() {
		return errPermissionDenied(fmt.Sprintf("order %s is assigned to another designer", order.Numero))
	}
	return nil
}

// SubmitVersion stores a new artwork version for an order. The version number
// is max(existing)+1, computed under a per-order lock; the file is written to
// storage before the database row is committed, and a failed insert deletes
// the file again so neither side is ever left orphaned. The designer
// assignment, version row and history entry commit in one transaction.
func SubmitVersion(orderID uint, actor *models.User, fileHeader *multipart.FileHeader, comment string) (*models.ArtworkVersion, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound(orderID)
		}
		return nil, errDatabase(err)
	}

	allowDesignFormats := actor.Perfil == models.RoleArteFinalista || actor.IsGestor()
	if err := utils.ValidateArtworkFile(fileHeader, allowDesignFormats); err != nil {
		var fe *utils.FileUploadError
		if errors.As(err, &fe) {
			return nil, &DomainError{Code: CodeFileValidation, Message: fe.Message}
		}
		return nil, &DomainError{Code: CodeFileValidation, Message: err.Error()}
	}

	unlock := lockOrder(order.ID)
	defer unlock()

	if err := checkSubmitPermission(db, &order, actor); err != nil {
		return nil, err
	}

	storage := GetFileStorage()
	var created *models.ArtworkVersion

	for attempt := 0; attempt < submitRetries; attempt++ {
		var maxVersao int
		if err := db.Model(&models.ArtworkVersion{}).
			Where("pedido_id = ?", order.ID).
			Select("COALESCE(MAX(versao), 0)").
			Scan(&maxVersao).Error; err != nil {
			return nil, errDatabase(err)
		}
		versao := maxVersao + 1

		key := utils.ArtworkStorageKey(order.ID, versao, uuid.NewString()[:8], fileHeader.Filename)

		src, err := fileHeader.Open()
		if err != nil {
			return nil, errStorageWrite("failed to open uploaded file", err)
		}
		writeErr := storage.Write(key, src)
		if closeErr := src.Close(); closeErr != nil {
			config.Logger().Warnw("failed to close uploaded file", "error", closeErr)
		}
		if writeErr != nil {
			config.Logger().Errorw("artwork storage write failed",
				"pedido_id", order.ID, "versao", versao, "error", writeErr)
			return nil, errStorageWrite("failed to store artwork file", writeErr)
		}

		version := models.ArtworkVersion{
			OrderID:         order.ID,
			Versao:          versao,
			StorageKey:      key,
			NomeArquivo:     fileHeader.Filename,
			Comentario:      comment,
			StatusAprovacao: models.ArtePendente,
			EnviadoPorID:    actor.ID,
		}

		insertErr := db.Transaction(func(tx *gorm.DB) error {
			if err := resolveAssignment(tx, &order, actor); err != nil {
				return err
			}
			if err := tx.Create(&version).Error; err != nil {
				return err
			}
			note := fmt.Sprintf("nova versão de arte enviada (v%d)", versao)
			return appendEvent(tx, order.ID, order.Status, order.Status, note, actor.ID)
		})
		if insertErr == nil {
			created = &version
			break
		}

		// The row never made it in; remove the file so no orphan remains.
		if delErr := storage.Delete(key); delErr != nil {
			config.Logger().Errorw("failed to remove artwork file after rollback",
				"key", key, "error", delErr)
		}

		if isUniqueViolation(insertErr) {
			if attempt < submitRetries-1 {
				continue // another submitter took this version number, recompute
			}
			// Exhausted retries: a conflict race, retryable by the caller.
			return nil, errConcurrentModification(order.ID)
		}
		var de *DomainError
		if errors.As(insertErr, &de) {
			return nil, de
		}
		return nil, errDatabase(insertErr)
	}

	return created, nil
}

// ReviewVersion records the approval decision for a pending artwork version.
// Only a manager or the order's commissioning salesperson may review, and a
// version already decided stays decided.
func ReviewVersion(versionID uint, actor *models.User, decision, comment string) (*models.ArtworkVersion, error) {
	if decision != models.ArteAprovado && decision != models.ArteReprovado {
		return nil, errValidation(fmt.Sprintf("decision must be %q or %q", models.ArteAprovado, models.ArteReprovado))
	}

	db := config.GetDB()
	var version models.ArtworkVersion

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&version, versionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errVersionNotFound(versionID)
			}
			return errDatabase(err)
		}

		var order models.Order
		if err := tx.First(&order, version.OrderID).Error; err != nil {
			return errDatabase(err)
		}

		if !actor.IsGestor() && !(actor.Perfil == models.RoleVendedor && order.VendedorID == actor.ID) {
			return errPermissionDenied("only a manager or the order's salesperson may review artwork")
		}

		updates := map[string]interface{}{"status_aprovacao": decision}
		if strings.TrimSpace(comment) != "" {
			updates["comentario"] = comment
		}

		// The pending state is the precondition of the write itself, so a
		// concurrent review cannot rewrite a decision it never observed.
		res := tx.Model(&models.ArtworkVersion{}).
			Where("id = ? AND status_aprovacao = ?", version.ID, models.ArtePendente).
			Updates(updates)
		if res.Error != nil {
			return errDatabase(res.Error)
		}
		if res.RowsAffected == 0 {
			return errInvalidTransition(fmt.Sprintf("artwork version v%d was already reviewed", version.Versao))
		}

		version.StatusAprovacao = decision
		if strings.TrimSpace(comment) != "" {
			version.Comentario = comment
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &version, nil
}

// ReassignDesigner moves the artwork responsibility of an order to another
// designer. Manager only.
func ReassignDesigner(orderID uint, actor *models.User, designerID uint) (*models.ArtworkAssignment, error) {
	if !actor.IsGestor() {
		return nil, errPermissionDenied("only a manager may reassign the responsible designer")
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound(orderID)
		}
		return nil, errDatabase(err)
	}

	var designer models.User
	if err := db.First(&designer, designerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errValidation(fmt.Sprintf("designer %d not found", designerID))
		}
		return nil, errDatabase(err)
	}
	if designer.Perfil != models.RoleArteFinalista {
		return nil, errValidation(fmt.Sprintf("user %s does not carry the designer profile", designer.Nome))
	}

	var assignment models.ArtworkAssignment
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("pedido_id = ?", order.ID).First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			assignment = models.ArtworkAssignment{OrderID: order.ID, DesignerID: designer.ID}
			if err := tx.Create(&assignment).Error; err != nil {
				return errDatabase(err)
			}
			return nil
		}
		if err != nil {
			return errDatabase(err)
		}
		if err := tx.Model(&assignment).Update("arte_finalista_id", designer.ID).Error; err != nil {
			return errDatabase(err)
		}
		assignment.DesignerID = designer.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}

// ListVersions returns the artwork versions of an order in ascending version
// order, with a serving URL attached for each stored file.
func ListVersions(orderID uint) ([]models.ArtworkVersion, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound(orderID)
		}
		return nil, errDatabase(err)
	}

	var versions []models.ArtworkVersion
	if err := db.Preload("EnviadoPor").
		Where("pedido_id = ?", orderID).
		Order("versao ASC").
		Find(&versions).Error; err != nil {
		return nil, errDatabase(err)
	}

	storage := GetFileStorage()
	if storage != nil {
		for i := range versions {
			url, err := storage.URL(versions[i].StorageKey)
			if err != nil {
				config.Logger().Warnw("failed to build artwork URL",
					"key", versions[i].StorageKey, "error", err)
				continue
			}
			versions[i].FileURL = url
		}
	}

	return versions, nil
}
