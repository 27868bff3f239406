// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Contract level failures. Each reverts the clause it occurs in.
var (
	ErrAlreadyInitialized  = NewRequireError("already initialized")
	ErrAuthorization       = NewRequireError("not authorized")
	ErrInvalidTarget       = NewRequireError("invalid target")
	ErrInsufficientAllow   = NewRequireError("insufficient allowance")
	ErrInsufficientBalance = NewRequireError("insufficient balance")
	ErrVolumeExceeded      = NewRequireError("volume exceeded")
	ErrLockPeriodActive    = NewRequireError("lock period active")
	ErrInvalidArgument     = NewRequireError("invalid argument")
	ErrNotInitialized      = NewRequireError("not initialized")
	ErrMethodNotFound      = NewRequireError("method not found")
	ErrOverflow            = NewRequireError("arithmetic overflow")
)

var known = []*ErrRequire{
	ErrAlreadyInitialized,
	ErrAuthorization,
	ErrInvalidTarget,
	ErrInsufficientAllow,
	ErrInsufficientBalance,
	ErrVolumeExceeded,
	ErrLockPeriodActive,
	ErrInvalidArgument,
	ErrNotInitialized,
	ErrMethodNotFound,
	ErrOverflow,
}

var errorSelector, _ = hex.DecodeString("08c379a0")

// ErrRequire is a revert carrying a human readable reason.
type ErrRequire struct {
	message string
	kind    *ErrRequire
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{
		message: message,
	}
}

// WithDetail derives an error of the same kind with extra context appended to the reason.
func (e *ErrRequire) WithDetail(format string, args ...any) *ErrRequire {
	kind := e
	if e.kind != nil {
		kind = e.kind
	}
	return &ErrRequire{
		message: e.message + ": " + fmt.Sprintf(format, args...),
		kind:    kind,
	}
}

func (e *ErrRequire) Error() string {
	return e.message
}

// Is reports whether the target is e itself or the kind e derives from.
func (e *ErrRequire) Is(target error) bool {
	t, ok := target.(*ErrRequire)
	if !ok {
		return false
	}
	return e == t || (e.kind != nil && e.kind == t)
}

// Bytes returns the reason ABI encoded as Error(string).
func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}

	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, errorSelector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// Parse restores a revert error from its reason. Reasons of known kinds are
// mapped back so that errors.Is keeps working across the wire.
func Parse(reason string) *ErrRequire {
	for _, k := range known {
		if reason == k.message {
			return k
		}
		if strings.HasPrefix(reason, k.message+": ") {
			return &ErrRequire{message: reason, kind: k}
		}
	}
	return NewRequireError(reason)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRequire
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}
