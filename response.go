package zephpost

import "fmt"

// SMTPCode represents SMTP reply codes (RFC 5321).
// 2yz: Success, 3yz: Continue, 4yz: Transient failure, 5yz: Permanent failure.
type SMTPCode int

const (
	// 2xx - Success
	CodeServiceReady   SMTPCode = 220
	CodeServiceClosing SMTPCode = 221
	CodeOK             SMTPCode = 250

	// 4xx - Transient Failure
	CodeServiceUnavailable SMTPCode = 421
	CodeLocalError         SMTPCode = 451

	// 5xx - Permanent Failure
	CodeCommandUnrecognized SMTPCode = 500
	CodeSyntaxError         SMTPCode = 501
	CodeBadSequence         SMTPCode = 503
	CodeParamsNotRecognized SMTPCode = 555
)

// Response represents an SMTP response to be sent to the client.
type Response struct {
	Code    SMTPCode
	Message string
}

// String formats the response as an SMTP reply line.
func (r Response) String() string {
	return fmt.Sprintf("%d %s", r.Code, r.Message)
}

// IsError returns true for 4xx or 5xx codes.
func (r Response) IsError() bool {
	return r.Code >= 400
}

// IsSuccess returns true for 2xx codes.
func (r Response) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// IsTransientError returns true for 4xx codes.
func (r Response) IsTransientError() bool {
	return r.Code >= 400 && r.Code < 500
}

// IsPermanentError returns true for 5xx codes.
func (r Response) IsPermanentError() bool {
	return r.Code >= 500
}

// ResponseOK creates a 250 response.
func ResponseOK(message string) Response {
	return Response{Code: CodeOK, Message: message}
}

// ResponseServiceReady creates the 220 greeting.
// The domain must be the first word after the code.
func ResponseServiceReady(domain string, message string) Response {
	msg := domain
	if message != "" {
		msg = domain + " " + message
	}
	return Response{Code: CodeServiceReady, Message: msg}
}

// ResponseServiceClosing creates a 221 response.
func ResponseServiceClosing(message string) Response {
	return Response{Code: CodeServiceClosing, Message: message}
}
