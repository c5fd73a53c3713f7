package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/parcelworks/shipping-gateway/internal/application"
)

const (
	// LabelApprovalSignal carries the approve/abandon decision
	LabelApprovalSignal = "label-approval"

	// TaskQueue is the task queue for label issuance
	TaskQueue = "shipping-gateway"

	defaultApprovalTimeout = 24 * time.Hour
)

// LabelIssuanceInput starts a label issuance workflow
type LabelIssuanceInput struct {
	ShipmentID      string        `json:"shipmentId"`
	ApprovalTimeout time.Duration `json:"approvalTimeout"`
}

// LabelApproval is the payload of the approval signal
type LabelApproval struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// LabelIssuanceResult is the workflow outcome
type LabelIssuanceResult struct {
	ShipmentID     string `json:"shipmentId"`
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Estimate       string `json:"estimate,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Error          string `json:"error,omitempty"`
}

// LabelIssuanceWorkflow purchases a shipping label in two durable phases:
// confirm reserves the purchase, then either an approval signal settles it
// or the reservation is voided on rejection or timeout.
func LabelIssuanceWorkflow(ctx workflow.Context, input LabelIssuanceInput) (*LabelIssuanceResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Label issuance workflow started", "shipmentId", input.ShipmentID)

	result := &LabelIssuanceResult{
		ShipmentID: input.ShipmentID,
		Status:     "failed",
	}

	confirmCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	var reservation application.ReservationDTO
	if err := workflow.ExecuteActivity(confirmCtx, "ConfirmLabel", input.ShipmentID).Get(confirmCtx, &reservation); err != nil {
		logger.Error("Label confirmation failed", "shipmentId", input.ShipmentID, "error", err)
		result.Error = err.Error()
		return result, nil
	}
	result.Estimate = reservation.Estimate
	result.Currency = reservation.Currency

	timeout := input.ApprovalTimeout
	if timeout <= 0 {
		timeout = defaultApprovalTimeout
	}

	var approval LabelApproval
	approvalReceived := false

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	selector := workflow.NewSelector(ctx)
	selector.AddReceive(workflow.GetSignalChannel(ctx, LabelApprovalSignal), func(c workflow.ReceiveChannel, more bool) {
		c.Receive(ctx, &approval)
		approvalReceived = true
	})
	selector.AddFuture(workflow.NewTimer(timerCtx, timeout), func(f workflow.Future) {
		logger.Info("Label approval timed out", "shipmentId", input.ShipmentID)
	})
	selector.Select(ctx)
	cancelTimer()

	if approvalReceived && approval.Approved {
		// The digest is consumed by the first accept attempt; an ambiguous
		// outcome may already have charged the account, so never retry.
		acceptCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: 2 * time.Minute,
			RetryPolicy: &temporal.RetryPolicy{
				MaximumAttempts: 1,
			},
		})

		var label application.LabelDTO
		err := workflow.ExecuteActivity(acceptCtx, "AcceptLabel",
			input.ShipmentID, reservation.Digest, reservation.PackageCount).Get(acceptCtx, &label)
		if err != nil {
			logger.Error("Label accept failed", "shipmentId", input.ShipmentID, "error", err)
			result.Error = err.Error()
			return result, nil
		}

		result.Status = "labeled"
		result.TrackingNumber = label.TrackingNumber
		return result, nil
	}

	voidCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	if err := workflow.ExecuteActivity(voidCtx, "VoidLabel",
		input.ShipmentID, reservation.Token).Get(voidCtx, nil); err != nil {
		logger.Error("Label void failed", "shipmentId", input.ShipmentID, "error", err)
		result.Error = err.Error()
		return result, nil
	}

	result.Status = "voided"
	return result, nil
}
