package api

import (
	"encoding/json"
	"net/http"
	"time"

	"skywatch/tracker/internal/common"
	"skywatch/tracker/internal/constants"
	"skywatch/tracker/internal/models/dtos"
)

func respondWithSuccess(w http.ResponseWriter, statusCode int, init time.Time, data interface{}) {
	resp := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		ResponseTime: common.GetResponseTime(init),
		Data:         data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, init time.Time, message string) {
	resp := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: common.GetResponseTime(init),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
