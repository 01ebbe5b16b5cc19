// Package handlers holds one gin handler per resource operation. Each handler binds
// and checks its input, performs a single repository or processor call under the
// request timeout and writes the result unchanged.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/apperrors"
	"watchshop/internal/auth"
	"watchshop/internal/logs"
	"watchshop/internal/models"
	"watchshop/internal/payment"
	"watchshop/internal/repository"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("handlers: gin binding validator is not go-playground/validator")
	}
	if err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	}); err != nil {
		panic(errors.Wrap(err, "handlers: register objectid validation"))
	}
}

// TokenIssuer is satisfied by *auth.TokenService.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// PaymentBridge is satisfied by *payment.Bridge.
type PaymentBridge interface {
	CreateIntent(ctx context.Context, price float64) (*payment.Intent, error)
	Settle(ctx context.Context, record *models.PaymentRecord) (*payment.Settlement, error)
}

type Handler struct {
	repos   repository.Set
	tokens  TokenIssuer
	bridge  PaymentBridge
	timeout time.Duration
}

func New(repos repository.Set, tokens TokenIssuer, bridge PaymentBridge, timeout time.Duration) *Handler {
	return &Handler{repos: repos, tokens: tokens, bridge: bridge, timeout: timeout}
}

// callContext bounds a single downstream call.
func (h *Handler) callContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// bindJSON decodes the body into dst. A failed objectid rule is reported as an
// invalid identifier, any other failure as an invalid body.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "objectid" {
				return apperrors.ErrInvalidIdentifier
			}
		}
	}
	logs.FromContext(c.Request.Context()).Debug("request body rejected", slog.String("error", err.Error()))
	return apperrors.ErrInvalidBody
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrInvalidIdentifier
	}
	return id, nil
}

// fail writes the error body for err. Unclassified errors are logged and reported
// as internal errors without detail.
func fail(c *gin.Context, err error) {
	if apperrors.Status(err) == http.StatusInternalServerError {
		logs.FromContext(c.Request.Context()).Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	c.AbortWithStatusJSON(apperrors.Status(err), apperrors.NewResponse(err))
}

type insertAck struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type updateAck struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type deleteAck struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func newInsertAck(res *mongo.InsertOneResult) insertAck {
	return insertAck{Acknowledged: true, InsertedID: res.InsertedID}
}

func newUpdateAck(res *mongo.UpdateResult) updateAck {
	return updateAck{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func newDeleteAck(res *mongo.DeleteResult) deleteAck {
	return deleteAck{Acknowledged: true, DeletedCount: res.DeletedCount}
}
