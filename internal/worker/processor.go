package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// ConfirmationProcessor processes order confirmation jobs from the queue
type ConfirmationProcessor struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	templateSvc  service.TemplateService
	sender       ConfirmationSender
	maxRetries   int
	logger       *slog.Logger
}

// NewConfirmationProcessor creates a new confirmation processor
func NewConfirmationProcessor(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	templateSvc service.TemplateService,
	sender ConfirmationSender,
	maxRetries int,
	logger *slog.Logger,
) *ConfirmationProcessor {
	return &ConfirmationProcessor{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		templateSvc:  templateSvc,
		sender:       sender,
		maxRetries:   maxRetries,
		logger:       logger,
	}
}

// Process handles a single order confirmation job
func (p *ConfirmationProcessor) Process(ctx context.Context, job *models.OrderJob) error {
	// Fetch the order from database
	order, err := p.orderRepo.GetByID(ctx, job.OrderID)
	if err != nil {
		p.logger.Error("failed to fetch order",
			slog.Int64("order_id", job.OrderID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch order: %w", err)
	}

	// A confirmation already sent stays sent; re-delivered jobs are no-ops
	if order.ConfirmationStatus == models.ConfirmationStatusSent {
		p.logger.Info("confirmation already sent, skipping",
			slog.Int64("order_id", order.ID),
		)
		return nil
	}

	// Fetch customer to get the destination address
	customer, err := p.customerRepo.GetByID(ctx, order.CustomerID)
	if err != nil {
		p.logger.Error("failed to fetch customer",
			slog.Int64("customer_id", order.CustomerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	content, err := p.templateSvc.Render(service.DefaultConfirmationTemplate, customer, order)
	if err != nil {
		p.logger.Error("failed to render confirmation",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to render confirmation: %w", err)
	}

	p.logger.Info("processing confirmation",
		slog.Int64("order_id", order.ID),
		slog.String("customer_email", customer.Email),
	)

	// Attempt to send the confirmation
	err = p.sender.Send(ctx, customer.Email, content)

	if err != nil {
		p.logger.Warn("confirmation send failed",
			slog.Int64("order_id", order.ID),
			slog.Int("attempts", order.ConfirmationAttempts),
			slog.String("error", err.Error()),
		)

		return p.handleFailure(ctx, order, err)
	}

	p.logger.Info("confirmation sent successfully",
		slog.Int64("order_id", order.ID),
		slog.String("customer_email", customer.Email),
	)

	return p.handleSuccess(ctx, order)
}

// handleSuccess updates the order confirmation status to sent
func (p *ConfirmationProcessor) handleSuccess(ctx context.Context, order *models.Order) error {
	err := p.orderRepo.UpdateConfirmation(ctx, order.ID, models.ConfirmationStatusSent, nil)
	if err != nil {
		p.logger.Error("failed to update confirmation status to sent",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to update confirmation status: %w", err)
	}

	return nil
}

// handleFailure handles send failures with retry accounting
func (p *ConfirmationProcessor) handleFailure(ctx context.Context, order *models.Order, sendErr error) error {
	// Increment attempt count
	if err := p.orderRepo.IncrementConfirmationAttempts(ctx, order.ID); err != nil {
		p.logger.Error("failed to increment confirmation attempts",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	// Check if we've exceeded max retries
	if order.ConfirmationAttempts+1 >= p.maxRetries {
		// Max retries reached - mark as permanently failed
		p.logger.Error("confirmation permanently failed after max retries",
			slog.Int64("order_id", order.ID),
			slog.Int("attempts", order.ConfirmationAttempts+1),
			slog.Int("max_retries", p.maxRetries),
		)

		errMsg := fmt.Sprintf("max retries exceeded: %s", sendErr.Error())
		if err := p.orderRepo.UpdateConfirmation(ctx, order.ID, models.ConfirmationStatusFailed, &errMsg); err != nil {
			p.logger.Error("failed to update confirmation status to failed",
				slog.Int64("order_id", order.ID),
				slog.String("error", err.Error()),
			)
			return err
		}

		return nil // Job processed (albeit failed)
	}

	// Still have retries left - record the failure for a later attempt
	p.logger.Info("confirmation will be retried",
		slog.Int64("order_id", order.ID),
		slog.Int("attempts", order.ConfirmationAttempts+1),
		slog.Int("max_retries", p.maxRetries),
	)

	errMsg := sendErr.Error()
	if err := p.orderRepo.UpdateConfirmation(ctx, order.ID, models.ConfirmationStatusFailed, &errMsg); err != nil {
		p.logger.Error("failed to update confirmation status",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	// Return error so the worker can potentially requeue if needed
	return fmt.Errorf("send failed, retry %d/%d: %w", order.ConfirmationAttempts+1, p.maxRetries, sendErr)
}
