package domain

// Shard statuses.
const (
	ShardStatusActive = iota
	ShardStatusInactive
)

// Execution status codes, ordered by progression.
const (
	ExecutionStatusCodeUndefined = iota
	ExecutionStatusCodeValidating
	ExecutionStatusCodeExecuting
	ExecutionStatusCodeSucceeded
	ExecutionStatusCodeFailed
)

// NoFailedHop marks an ExecutionResult without a failing hop.
const NoFailedHop = -1
