package mapper

import (
	"research-link-be/internal/entity"
	"research-link-be/internal/model"
)

type SubscriptionMapper struct {
	collegeMapper *CollegeMapper
}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{
		collegeMapper: NewCollegeMapper(),
	}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	return &entity.Plan{
		Id:            p.Id,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		TaxRate:       p.TaxRate,
		BillingCycle:  entity.BillingCycle(p.BillingCycle),
		IsMostPopular: p.IsMostPopular,
		IsActive:      p.IsActive,
		SortOrder:     p.SortOrder,
		Colleges:      m.collegeMapper.ToEntities(p.Colleges),
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:            p.Id,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		TaxRate:       p.TaxRate,
		BillingCycle:  string(p.BillingCycle),
		IsMostPopular: p.IsMostPopular,
		IsActive:      p.IsActive,
		SortOrder:     p.SortOrder,
		Colleges:      m.collegeMapper.ToModels(p.Colleges),
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                    s.Id,
		UserId:                s.UserId,
		PlanId:                s.PlanId,
		Status:                entity.SubscriptionStatus(s.Status),
		PaymentStatus:         entity.PaymentStatus(s.PaymentStatus),
		StartedAt:             s.StartedAt,
		EndsAt:                s.EndsAt,
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
		Plan:                  m.PlanToEntity(s.Plan),
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                    s.Id,
		UserId:                s.UserId,
		PlanId:                s.PlanId,
		Status:                string(s.Status),
		PaymentStatus:         string(s.PaymentStatus),
		StartedAt:             s.StartedAt,
		EndsAt:                s.EndsAt,
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
