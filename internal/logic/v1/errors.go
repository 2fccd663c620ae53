// Package v1 provides the page, auth, profile, chat and image-analysis
// business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for the failures each surface handles
// itself. They should be wrapped with context using fmt.Errorf("%w") when
// returned from business logic methods and checked with errors.Is in the
// web layer.
//
// Remote-service errors are deliberately NOT unified: the auth form and the
// image analyzer surface them inline, the profile editor surfaces them as a
// blocking alert, and the chat widget swallows them into a fixed bot reply.
// Consumers depend on that per-surface placement.
package v1

import "errors"

// Sentinel errors for member-area and widget operations.
var (
	// ErrNotAuthenticated indicates the operation requires a live session.
	// HTTP Status: 401 Unauthorized
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoFileSelected indicates an upload was submitted without a file.
	// HTTP Status: 400 Bad Request
	ErrNoFileSelected = errors.New("no file selected")

	// ErrNotAnImage indicates the uploaded file is not an image. No remote
	// call is attempted.
	// HTTP Status: 400 Bad Request
	ErrNotAnImage = errors.New("file is not an image")

	// ErrEmptyMessage indicates a chat turn with empty or whitespace-only
	// text. The send is a no-op.
	ErrEmptyMessage = errors.New("empty message")

	// ErrTurnInFlight indicates a chat turn is already outstanding on the
	// conversation. The new send is ignored, not queued.
	ErrTurnInFlight = errors.New("turn already in flight")

	// ErrConversationNotFound indicates the conversation ID is unknown or
	// has expired.
	// HTTP Status: 404 Not Found
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrAnalysisSuperseded indicates a newer image analysis started on the
	// same page before this one finished; the stale result is discarded.
	ErrAnalysisSuperseded = errors.New("analysis superseded")
)
