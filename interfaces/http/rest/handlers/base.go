package handlers

import (
	"errors"
	"io"
	"net/http"

	"kindra/application/commands/bus"
	querybus "kindra/application/queries/bus"
	"kindra/pkg/common"
	pkgerrors "kindra/pkg/errors"
	"kindra/pkg/utils"

	"go.uber.org/zap"
)

const (
	apiVersion   = "v2"
	maxBodyBytes = 1 << 20
)

// base carries what every resource handler needs
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

func newBase(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errs == nil {
		errs = pkgerrors.NewErrorHandler(logger, false)
	}
	return base{commandBus: commandBus, queryBus: queryBus, errors: errs, logger: logger}
}

// userID returns the authenticated caller or writes a 401
func (b *base) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		b.errors.Handle(w, r, pkgerrors.NewUnauthorizedError("Unauthorized"))
		return "", false
	}
	return userID, true
}

// decode parses and validates a JSON body. An empty body is accepted when
// allowEmpty is set. Failures are written as 400s.
func (b *base) decode(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) bool {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			b.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
			return false
		}
	}
	if err := utils.ValidateStruct(v); err != nil {
		b.errors.Handle(w, r, err)
		return false
	}
	return true
}

func (b *base) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	common.RespondWithMeta(w, status, data, common.NewMeta(r, apiVersion))
}
