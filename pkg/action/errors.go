// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package action

import "errors"

var (
	// ErrRollbackNotSupported is returned by actions that cannot be undone.
	ErrRollbackNotSupported = errors.New("rollback not supported for this action")

	// ErrActionNotFound indicates that a requested action is not in the registry.
	ErrActionNotFound = errors.New("action not found in registry")

	// ErrInvalidConfig indicates that an action's parameters are unusable.
	ErrInvalidConfig = errors.New("invalid action configuration")

	// ErrMaxRetriesExceeded wraps the last error of an action that kept failing.
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")

	// ErrMissingDependency indicates the service an action needs was not wired.
	ErrMissingDependency = errors.New("action dependency not configured")
)
