package gateway

import (
	"bytes"
	"encoding/json"
	"eventdesk/internal/dto"
	"net/http"
	"strings"
)

// classifyForm maps the answer to a form-encoded post. 2xx and 3xx count as
// success since the backend redirects after a successful registration.
func classifyForm(op string, status int, body []byte, sniff bool) *Error {
	if status >= 200 && status < 400 {
		return nil
	}

	if code, msg, ok := decodeErrorBody(body); ok {
		return &Error{Kind: kindFromCode(code, status), Op: op, Status: status, Code: code, Message: msg}
	}

	if sniff {
		if k, msg, ok := sniffLegacy(body); ok {
			return &Error{Kind: k, Op: op, Status: status, Message: msg}
		}
	}

	return &Error{Kind: kindFromStatus(status), Op: op, Status: status}
}

// classifyMutation maps the answer to a JSON create/update/delete call.
func classifyMutation(op string, status int, body []byte) (*dto.MutationResponse, *Error) {
	var resp dto.MutationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if status/100 == 2 {
			return nil, &Error{Kind: KindRejected, Op: op, Status: status, Message: "unreadable response", Err: err}
		}
		return nil, &Error{Kind: kindFromStatus(status), Op: op, Status: status}
	}
	if status/100 == 2 && resp.Success {
		return &resp, nil
	}
	code, msg := resp.ErrorMessage()
	kind := kindFromCode(code, status)
	if status/100 == 2 {
		kind = KindRejected
		if code != "" {
			kind = kindFromCode(code, http.StatusBadRequest)
		}
	}
	return nil, &Error{Kind: kind, Op: op, Status: status, Code: code, Message: msg}
}

func decodeErrorBody(body []byte) (code, msg string, ok bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", "", false
	}
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Error) == 0 {
		return "", "", false
	}
	code, msg = dto.DecodeError(env.Error)
	return code, msg, true
}

func kindFromCode(code string, status int) Kind {
	switch code {
	case dto.RegistrationDuplicate:
		return KindAlreadyRegistered
	case dto.FieldBadFormat, dto.FieldIncorrect:
		return KindValidation
	case dto.EventNotFound, dto.RegistrationNotFound:
		return KindNotFound
	}
	return kindFromStatus(status)
}

func kindFromStatus(status int) Kind {
	switch status {
	case http.StatusConflict:
		return KindAlreadyRegistered
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindRejected
	}
}

// sniffLegacy recognises the flash messages of backends that still answer
// registration failures with a rendered HTML page.
func sniffLegacy(body []byte) (Kind, string, bool) {
	text := string(body)
	switch {
	case strings.Contains(text, "already registered"):
		return KindAlreadyRegistered, "You have already registered for this event.", true
	case strings.Contains(text, "Please fill in all required fields"):
		return KindValidation, "Please fill in all required fields.", true
	case strings.Contains(text, "valid 10-digit mobile"):
		return KindValidation, "Please enter a valid 10-digit mobile number.", true
	}
	return 0, "", false
}
