package domain

import "errors"

var (
	// ErrInvalidTokenAddress ...
	ErrInvalidTokenAddress = errors.New("token address must be a valid hex address")
	// ErrInvalidTokenChain ...
	ErrInvalidTokenChain = errors.New("token chain id must not be empty")
	// ErrPairTokensEqual ...
	ErrPairTokensEqual = errors.New("pair tokens must differ")
	// ErrTokenNotInPair is thrown when a token is resolved against a pair it
	// does not belong to.
	ErrTokenNotInPair = errors.New("token does not belong to pair")

	// ErrShardInvalidId ...
	ErrShardInvalidId = errors.New("shard id must not be empty")
	// ErrShardNotFound ...
	ErrShardNotFound = errors.New("shard not found")
	// ErrShardAlreadyExists ...
	ErrShardAlreadyExists = errors.New("shard already exists")
	// ErrShardStaleSnapshot is thrown when applying a snapshot older than the
	// one currently held.
	ErrShardStaleSnapshot = errors.New("snapshot is older than current one")

	// ErrPathEmpty ...
	ErrPathEmpty = errors.New("path must contain at least one hop")
	// ErrPathDisconnected is thrown when adjacent hops do not share a token.
	ErrPathDisconnected = errors.New("path hops are not connected")

	// ErrQuoteExpired ...
	ErrQuoteExpired = errors.New("quote is expired and must be re-validated")
	// ErrDeadlineExceeded ...
	ErrDeadlineExceeded = errors.New("execution deadline is in the past")
	// ErrSlippageExceeded is thrown when the quoted price impact already
	// exceeds the caller's slippage tolerance.
	ErrSlippageExceeded = errors.New("price impact exceeds max slippage")
	// ErrShardNotActive ...
	ErrShardNotActive = errors.New("shard is not active")

	// ErrExecutionNotValidating is thrown when validating an execution that
	// already moved past the Validating state.
	ErrExecutionNotValidating = errors.New("execution must be in validating state")
	// ErrExecutionNotExecuting ...
	ErrExecutionNotExecuting = errors.New("execution must be in executing state")
	// ErrExecutionAlreadySettled is thrown when mutating an execution that
	// reached a terminal state.
	ErrExecutionAlreadySettled = errors.New("execution is already settled")
	// ErrExecutionHopOutOfOrder is thrown when a hop result is recorded for a
	// hop other than the current one.
	ErrExecutionHopOutOfOrder = errors.New("hop result recorded out of order")
	// ErrExecutionHopsPending is thrown when settling an execution with
	// unexecuted hops left.
	ErrExecutionHopsPending = errors.New("execution has pending hops")
)
