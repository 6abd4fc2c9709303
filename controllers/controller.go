package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeapp/plume/middleware"
)

// getUserID returns the authenticated caller's id. The auth middleware stores
// it as a uint; that is the only identity representation handlers compare.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// optionalUserID returns the caller's id when an optional identity was
// attached, nil otherwise.
func optionalUserID(ctx *gin.Context) *uint {
	if id, ok := getUserID(ctx); ok {
		return &id
	}
	return nil
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// toggleRow flips presence of the row matched by cond: when present it is
// deleted, otherwise fresh is inserted. An insert rejected by a unique index
// means a concurrent toggle won the race; the row exists, so the call
// converges on the liked/followed state instead of failing.
func toggleRow(db *gorm.DB, model interface{}, cond map[string]interface{}, fresh interface{}) (bool, error) {
	res := db.Where(cond).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := db.Create(fresh).Error; err != nil {
		if isDuplicateKey(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
