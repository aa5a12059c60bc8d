// Package apperr defines the coded domain errors the HTTP boundary maps 1:1
// to status codes. Every error carries a stable machine-readable code, a
// human-readable reason and the offending key/payload for client diagnostics.
package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Error struct {
	Code   string `json:"errorCode"`
	Reason string `json:"reason"`
	Data   any    `json:"data,omitempty"`
	Status int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func New(status int, code, reason string, data any) *Error {
	return &Error{Code: code, Reason: reason, Data: data, Status: status}
}

// --- identity ---

func DuplicateEmail(email string) *Error {
	return New(fiber.StatusConflict, "U001", "email is already registered", fiber.Map{"email": email})
}

func NoPreference() *Error {
	return New(fiber.StatusBadRequest, "U002", "at least one preference is required", nil)
}

func InvalidCredentials() *Error {
	return New(fiber.StatusUnauthorized, "U003", "invalid email or password", nil)
}

func MissingEmailClaim(provider string) *Error {
	return New(fiber.StatusUnauthorized, "AUTH004", "external profile has no email claim", fiber.Map{"provider": provider})
}

// --- missions ---

func NoMissionInsertion(reason string, data any) *Error {
	return New(fiber.StatusBadRequest, "M001", reason, data)
}

func MissionNotFound(missionID uint64) *Error {
	return New(fiber.StatusNotFound, "MS001", "mission not found", fiber.Map{"mission_id": missionID})
}

func AlreadyActive(memberID, missionID uint64, address string) *Error {
	return New(fiber.StatusConflict, "MM001", "mission already in progress", fiber.Map{
		"member_id":  memberID,
		"mission_id": missionID,
		"address":    address,
	})
}

func ParticipationNotFound(memberID, missionID uint64) *Error {
	return New(fiber.StatusNotFound, "SMC001", "participation not found", fiber.Map{
		"member_id":  memberID,
		"mission_id": missionID,
	})
}

func NotActivated(participationID uint64) *Error {
	return New(fiber.StatusBadRequest, "SMC002", "mission is not activated", fiber.Map{"participation_id": participationID})
}

func AlreadyCompleted(participationID uint64) *Error {
	return New(fiber.StatusConflict, "SMC003", "mission is already completed", fiber.Map{"participation_id": participationID})
}

func MissionExpired(participationID uint64) *Error {
	return New(fiber.StatusBadRequest, "SMC004", "mission deadline has passed", fiber.Map{"participation_id": participationID})
}

// --- stores / reviews ---

func NoStoreInsertion(reason string, data any) *Error {
	return New(fiber.StatusBadRequest, "S002", reason, data)
}

func NoReviewInsertion(reason string, data any) *Error {
	return New(fiber.StatusBadRequest, "R001", reason, data)
}

// --- boundary ---

func Unauthorized(code, reason string) *Error {
	return New(fiber.StatusUnauthorized, code, reason, nil)
}

func Forbidden(code, reason string) *Error {
	return New(fiber.StatusForbidden, code, reason, nil)
}

// Validation aggregates every failed field of a request body into one error.
func Validation(fields map[string]string) *Error {
	return New(fiber.StatusBadRequest, "V001", "request validation failed", fields)
}
