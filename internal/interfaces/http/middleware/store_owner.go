package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Store context keys
const (
	StoreKey       = "store"
	StoreIDParam   = "storeId"
	StoreIDAttrKey = "store_id"
)

// StoreOwnerChecker resolves a store and checks that the user owns it
type StoreOwnerChecker interface {
	RequireOwner(ctx context.Context, storeID int64, ownerID string) (*catalog.Store, error)
}

// StoreOwnerConfig holds configuration for the store owner middleware
type StoreOwnerConfig struct {
	Checker StoreOwnerChecker
	Logger  *zap.Logger
}

// RequireStoreOwner lets the request through only when the authenticated
// user owns the store named by the :storeId path parameter. It must run after
// the JWT middleware. The store is left in the context under StoreKey.
func RequireStoreOwner(cfg StoreOwnerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, err := strconv.ParseInt(c.Param(StoreIDParam), 10, 64)
		if err != nil || storeID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "Store id is required", GetRequestID(c)))
			return
		}

		userID := GetJWTUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		store, err := cfg.Checker.RequireOwner(c.Request.Context(), storeID, userID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Store access denied",
					zap.Int64(StoreIDAttrKey, storeID),
					zap.String("user_id", userID),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			}
			abortWithDomainError(c, err)
			return
		}

		c.Set(StoreKey, store)
		c.Next()
	}
}

// GetStore returns the store resolved by RequireStoreOwner
func GetStore(c *gin.Context) *catalog.Store {
	if v, ok := c.Get(StoreKey); ok {
		if store, ok := v.(*catalog.Store); ok {
			return store
		}
	}
	return nil
}

func abortWithDomainError(c *gin.Context, err error) {
	if domainErr, ok := shared.AsDomainError(err); ok {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, GetRequestID(c)))
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
}
