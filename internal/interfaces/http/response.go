package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	"github.com/Honey822438/RecuirtSys/internal/domain/gate"
)

// Response is the JSON envelope of every API reply
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	// Code is the workflow error kind, when there is one
	Code    workflow.ErrorKind `json:"code,omitempty"`
	Missing []gate.Requirement `json:"missing,omitempty"`
}

var kindStatus = map[workflow.ErrorKind]int{
	workflow.KindInvalidTransition:     http.StatusConflict,
	workflow.KindGateNotSatisfied:      http.StatusUnprocessableEntity,
	workflow.KindAuthorizationDenied:   http.StatusForbidden,
	workflow.KindStaleState:            http.StatusConflict,
	workflow.KindRepositoryUnavailable: http.StatusServiceUnavailable,
	workflow.KindNotFound:              http.StatusNotFound,
	workflow.KindValidation:            http.StatusBadRequest,
}

// StatusFor maps an error onto an HTTP status
func StatusFor(err error) int {
	if status, ok := kindStatus[workflow.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	resp := Response{Success: false, Error: err.Error(), Code: workflow.KindOf(err)}
	var te *workflow.TransitionError
	if errors.As(err, &te) {
		resp.Missing = te.Missing
	}
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	respondError(c, workflow.NewError(workflow.KindValidation, "", err))
}
