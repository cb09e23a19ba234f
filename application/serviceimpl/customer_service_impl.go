package serviceimpl

import (
	"context"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
)

type CustomerServiceImpl struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) services.CustomerService {
	return &CustomerServiceImpl{customerRepo: customerRepo}
}

// EnsureCustomer ชนกันที่ unique user_id จะอ่านตัวที่มีอยู่กลับมา
func (s *CustomerServiceImpl) EnsureCustomer(ctx context.Context, identity services.Identity) (*models.Customer, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByUserID(ctx, identity.UserID)
	if err == nil {
		return customer, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	if err := s.customerRepo.CreateIfAbsent(ctx, &models.Customer{UserID: identity.UserID}); err != nil {
		logger.ErrorContext(ctx, "Failed to create customer", "user_id", identity.UserID, "error", err)
		return nil, err
	}

	customer, err = s.customerRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Customer created", "user_id", identity.UserID, "customer_id", customer.ID)
	return customer, nil
}
