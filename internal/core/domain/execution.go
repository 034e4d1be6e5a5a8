package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExecutionStatus represents the state of one execution attempt.
type ExecutionStatus struct {
	Code   int
	Failed bool
}

// HopResult records the actual amounts of one executed hop.
type HopResult struct {
	HopIndex  int
	ShardId   string
	AmountIn  uint64
	AmountOut uint64
	Fee       uint64
}

// ExecutionResult is the terminal outcome of an execution attempt. It is
// created once when the execution settles and never mutated afterwards.
type ExecutionResult struct {
	Success bool
	// HopResults lists the hops that actually executed, in order. On
	// validation failure it is empty; on mid-path failure it contains the
	// hops completed before the failing one so callers can reconcile
	// on-chain state.
	HopResults     []HopResult
	FailedHopIndex int
	FailureReason  string
	AmountIn       uint64
	AmountOut      uint64
	TotalFees      uint64
}

// Execution is the state machine of one multi-hop swap attempt:
// Validating -> Executing(hop) -> Succeeded | Failed(hop, reason).
// Each attempt owns its quote copy and result; no execution is shared
// between goroutines.
type Execution struct {
	Id          string
	Quote       Quote
	UserAddress string
	Recipient   string
	Deadline    time.Time
	MaxSlippage decimal.Decimal
	Status      ExecutionStatus
	CurrentHop  int

	hopResults    []HopResult
	failureReason string
	failedHop     int
}

// NewExecution returns an execution attempt in the Validating state.
func NewExecution(
	quote Quote, userAddress, recipient string,
	deadline time.Time, maxSlippage decimal.Decimal,
) *Execution {
	return &Execution{
		Id:          uuid.New().String(),
		Quote:       quote,
		UserAddress: userAddress,
		Recipient:   recipient,
		Deadline:    deadline,
		MaxSlippage: maxSlippage,
		Status:      ExecutionStatus{Code: ExecutionStatusCodeValidating},
		failedHop:   NoFailedHop,
	}
}

// Validate runs the pre-execution checks and, on success, moves the
// execution to Executing with the first hop as current. Any failure settles
// the execution as Failed with zero hops attempted.
func (e *Execution) Validate(now time.Time) error {
	if e.isSettled() {
		return ErrExecutionAlreadySettled
	}
	if e.Status.Code != ExecutionStatusCodeValidating {
		return ErrExecutionNotValidating
	}
	if e.Quote.IsExpired(now) {
		e.settleFailed(NoFailedHop, ErrQuoteExpired.Error())
		return ErrQuoteExpired
	}
	if !e.Deadline.After(now) {
		e.settleFailed(NoFailedHop, ErrDeadlineExceeded.Error())
		return ErrDeadlineExceeded
	}
	if e.Quote.Path.TotalPriceImpact().GreaterThan(e.MaxSlippage) {
		e.settleFailed(NoFailedHop, ErrSlippageExceeded.Error())
		return ErrSlippageExceeded
	}

	e.Status = ExecutionStatus{Code: ExecutionStatusCodeExecuting}
	e.CurrentHop = 0
	return nil
}

// FailValidation settles a still-validating execution for a reason checked
// outside the entity, like an inactive shard discovered via the registry.
func (e *Execution) FailValidation(reason string) error {
	if e.Status.Code != ExecutionStatusCodeValidating {
		return ErrExecutionNotValidating
	}
	e.settleFailed(NoFailedHop, reason)
	return nil
}

// CompleteHop records the actual amounts of the current hop and advances to
// the next one.
func (e *Execution) CompleteHop(res HopResult) error {
	if e.isSettled() {
		return ErrExecutionAlreadySettled
	}
	if e.Status.Code != ExecutionStatusCodeExecuting {
		return ErrExecutionNotExecuting
	}
	if res.HopIndex != e.CurrentHop {
		return ErrExecutionHopOutOfOrder
	}
	e.hopResults = append(e.hopResults, res)
	e.CurrentHop++
	return nil
}

// FailHop settles the execution as Failed at the current hop.
func (e *Execution) FailHop(reason string) error {
	if e.isSettled() {
		return ErrExecutionAlreadySettled
	}
	if e.Status.Code != ExecutionStatusCodeExecuting {
		return ErrExecutionNotExecuting
	}
	e.settleFailed(e.CurrentHop, reason)
	return nil
}

// Succeed settles the execution as Succeeded. All hops must have completed.
func (e *Execution) Succeed() error {
	if e.isSettled() {
		return ErrExecutionAlreadySettled
	}
	if e.Status.Code != ExecutionStatusCodeExecuting {
		return ErrExecutionNotExecuting
	}
	if len(e.hopResults) != len(e.Quote.Path.Hops) {
		return ErrExecutionHopsPending
	}
	e.Status = ExecutionStatus{Code: ExecutionStatusCodeSucceeded}
	return nil
}

// Result builds the terminal result of the attempt. For a failed attempt the
// hop results list only the hops that completed before the failure.
func (e *Execution) Result() *ExecutionResult {
	res := &ExecutionResult{
		Success:        e.Status.Code == ExecutionStatusCodeSucceeded,
		FailedHopIndex: e.failedHop,
		FailureReason:  e.failureReason,
	}
	if len(e.hopResults) > 0 {
		res.HopResults = make([]HopResult, len(e.hopResults))
		copy(res.HopResults, e.hopResults)
	}
	if !res.Success {
		return res
	}

	res.AmountIn = e.hopResults[0].AmountIn
	res.AmountOut = e.hopResults[len(e.hopResults)-1].AmountOut
	for _, hr := range e.hopResults {
		res.TotalFees += hr.Fee
	}
	return res
}

func (e *Execution) isSettled() bool {
	return e.Status.Code == ExecutionStatusCodeSucceeded ||
		e.Status.Code == ExecutionStatusCodeFailed
}

func (e *Execution) settleFailed(hopIndex int, reason string) {
	e.Status = ExecutionStatus{Code: ExecutionStatusCodeFailed, Failed: true}
	e.failedHop = hopIndex
	e.failureReason = reason
}
