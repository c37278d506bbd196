package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vermy/vermy/internal/domain"
)

// PropertyFilter parses ?kind=&status=&parentId=&city=
func PropertyFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.PropertyFilter, error) {
	parentID, err := parseQueryUUID(c, "parentId")
	if err != nil {
		return nil, err
	}
	return &domain.PropertyFilter{
		ListOptions: opts,
		Kind:        domain.PropertyKind(c.Query("kind")),
		Status:      domain.PropertyStatus(c.Query("status")),
		ParentID:    parentID,
		City:        c.Query("city"),
	}, nil
}

// TenantFilter parses ?propertyId=&status=&isPrimary=
func TenantFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.TenantFilter, error) {
	propertyID, err := parseQueryUUID(c, "propertyId")
	if err != nil {
		return nil, err
	}
	isPrimary, err := parseQueryOptionalBool(c, "isPrimary")
	if err != nil {
		return nil, err
	}
	return &domain.TenantFilter{
		ListOptions: opts,
		PropertyID:  propertyID,
		Status:      domain.TenantStatus(c.Query("status")),
		IsPrimary:   isPrimary,
	}, nil
}

// LeaseFilter parses ?propertyId=&tenantId=&status=
func LeaseFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.LeaseFilter, error) {
	propertyID, err := parseQueryUUID(c, "propertyId")
	if err != nil {
		return nil, err
	}
	tenantID, err := parseQueryUUID(c, "tenantId")
	if err != nil {
		return nil, err
	}
	return &domain.LeaseFilter{
		ListOptions: opts,
		PropertyID:  propertyID,
		TenantID:    tenantID,
		Status:      domain.LeaseStatus(c.Query("status")),
	}, nil
}

// BookingFilter parses ?propertyId=&tenantId=&leaseId=&category=&kind=&status=&dateFrom=&dateTo=
func BookingFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.BookingFilter, error) {
	f := &domain.BookingFilter{
		ListOptions: opts,
		Category:    domain.BookingCategory(c.Query("category")),
		Kind:        domain.BookingKind(c.Query("kind")),
		Status:      domain.BookingStatus(c.Query("status")),
	}

	var err error
	if f.PropertyID, err = parseQueryUUID(c, "propertyId"); err != nil {
		return nil, err
	}
	if f.TenantID, err = parseQueryUUID(c, "tenantId"); err != nil {
		return nil, err
	}
	if f.LeaseID, err = parseQueryUUID(c, "leaseId"); err != nil {
		return nil, err
	}
	if f.DateFrom, err = parseQueryDate(c, "dateFrom"); err != nil {
		return nil, err
	}
	if f.DateTo, err = parseQueryDate(c, "dateTo"); err != nil {
		return nil, err
	}
	return f, nil
}

// UtilityStatementFilter parses ?propertyId=&year=&status=
func UtilityStatementFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.UtilityStatementFilter, error) {
	propertyID, err := parseQueryUUID(c, "propertyId")
	if err != nil {
		return nil, err
	}
	year, err := parseQueryInt(c, "year", 0)
	if err != nil {
		return nil, err
	}
	return &domain.UtilityStatementFilter{
		ListOptions: opts,
		PropertyID:  propertyID,
		Year:        year,
		Status:      domain.UtilityStatementStatus(c.Query("status")),
	}, nil
}

// MaintenanceTicketFilter parses ?propertyId=&tenantId=&category=&priority=&status=
func MaintenanceTicketFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.MaintenanceTicketFilter, error) {
	propertyID, err := parseQueryUUID(c, "propertyId")
	if err != nil {
		return nil, err
	}
	tenantID, err := parseQueryUUID(c, "tenantId")
	if err != nil {
		return nil, err
	}
	return &domain.MaintenanceTicketFilter{
		ListOptions: opts,
		PropertyID:  propertyID,
		TenantID:    tenantID,
		Category:    domain.TicketCategory(c.Query("category")),
		Priority:    domain.TicketPriority(c.Query("priority")),
		Status:      domain.TicketStatus(c.Query("status")),
	}, nil
}

// DunningNoticeFilter parses ?propertyId=&tenantId=&bookingId=&level=&status=
func DunningNoticeFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.DunningNoticeFilter, error) {
	f := &domain.DunningNoticeFilter{
		ListOptions: opts,
		Status:      domain.DunningStatus(c.Query("status")),
	}

	var err error
	if f.PropertyID, err = parseQueryUUID(c, "propertyId"); err != nil {
		return nil, err
	}
	if f.TenantID, err = parseQueryUUID(c, "tenantId"); err != nil {
		return nil, err
	}
	if f.BookingID, err = parseQueryUUID(c, "bookingId"); err != nil {
		return nil, err
	}
	if f.Level, err = parseQueryInt(c, "level", 0); err != nil {
		return nil, err
	}
	return f, nil
}

// DocumentFilter parses ?propertyId=&tenantId=&leaseId=&category=
func DocumentFilter(c *fiber.Ctx, opts domain.ListOptions) (*domain.DocumentFilter, error) {
	f := &domain.DocumentFilter{
		ListOptions: opts,
		Category:    domain.DocumentCategory(c.Query("category")),
	}

	var err error
	if f.PropertyID, err = parseQueryUUID(c, "propertyId"); err != nil {
		return nil, err
	}
	if f.TenantID, err = parseQueryUUID(c, "tenantId"); err != nil {
		return nil, err
	}
	if f.LeaseID, err = parseQueryUUID(c, "leaseId"); err != nil {
		return nil, err
	}
	return f, nil
}
