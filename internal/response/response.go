package response

import "github.com/Noxaewr/good-night-app/internal"

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta, Error: nil}
}

func Error(appErr *internal.AppError) APIResponse {
	return APIResponse{Error: appErr}
}

func BadRequest(msg string) APIResponse {
	return APIResponse{Error: &internal.AppError{Code: internal.CodeBadRequest, Message: msg, HTTPStatus: 400}}
}

func NotFound(msg string) APIResponse {
	return APIResponse{Error: internal.NewNotFound(msg)}
}

func InternalError(msg string) APIResponse {
	return APIResponse{Error: internal.NewInternalError(msg)}
}
