package service

import (
	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
	"github.com/shinerking/nexusflow/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	Create(actor model.Actor, req *CreateProductRequest) (*model.Product, error)
	Update(actor model.Actor, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	Delete(actor model.Actor, id uuid.UUID) error
	Approve(actor model.Actor, id uuid.UUID) (*model.Product, error)
	Reject(actor model.Actor, id uuid.UUID) error
	List(actor model.Actor) ([]model.Product, error)
	Import(actor model.Actor, rows []ImportProductRow) (int, error)
	ResetInventory(actor model.Actor) error
}

type CreateProductRequest struct {
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock    int      `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest intentionally has no stock field: after
// creation only approved stock logs may change stock.
type UpdateProductRequest struct {
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
}

type ImportProductRow struct {
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock    int      `json:"stock" validate:"gte=0"`
}

type productService struct {
	repos repository.Repos
	scope repository.TxScope
	hub   *ws.Hub
	log   *zap.SugaredLogger
}

func NewProductService(repos repository.Repos, scope repository.TxScope, hub *ws.Hub, log *zap.SugaredLogger) ProductService {
	return &productService{repos: repos, scope: scope, hub: hub, log: log}
}

// Create registers a product. STAFF submissions start PENDING and enter
// the approval queue; MANAGER/ADMIN products are approved on the spot.
// Initial stock is taken as given, the no-direct-stock-edit rule only
// binds later edits.
func (s *productService) Create(actor model.Actor, req *CreateProductRequest) (*model.Product, error) {
	if err := requireAction(actor, model.ActionAddProduct); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	status := model.ProductPending
	if model.IsAdminOrManager(actor.Role) {
		status = model.ProductApproved
	}

	product := &model.Product{
		Name:           req.Name,
		Category:       req.Category,
		Price:          req.Price,
		Stock:          req.Stock,
		Status:         status,
		OrganizationID: actor.OrganizationID,
	}
	if err := s.repos.Products.Create(product); err != nil {
		return nil, apperr.Internal("failed to create product", err)
	}

	if status == model.ProductPending {
		s.hub.Publish(ws.Event{
			Type:    "approval_queue",
			Action:  "product_submitted",
			Payload: product,
			Message: actor.Name + " submitted product '" + product.Name + "'",
		})
	}
	return product, nil
}

func (s *productService) Update(actor model.Actor, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	if err := requireAction(actor, model.ActionEditProduct); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.findInOrg(actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Products.UpdateDetails(id, req.Name, req.Category, req.Price); err != nil {
		return nil, apperr.Internal("failed to update product", err)
	}
	product.Name = req.Name
	product.Category = req.Category
	product.Price = req.Price
	return product, nil
}

func (s *productService) Delete(actor model.Actor, id uuid.UUID) error {
	if err := requireAction(actor, model.ActionDeleteProduct); err != nil {
		return err
	}
	if _, err := s.findInOrg(actor, id); err != nil {
		return err
	}
	if err := s.repos.Products.Delete(id); err != nil {
		return apperr.Internal("failed to delete product", err)
	}
	return nil
}

func (s *productService) Approve(actor model.Actor, id uuid.UUID) (*model.Product, error) {
	if err := requireAction(actor, model.ActionApproveProduct); err != nil {
		return nil, err
	}
	product, err := s.findInOrg(actor, id)
	if err != nil {
		return nil, err
	}
	if product.Status != model.ProductPending {
		return nil, apperr.Conflict("This product has already been processed")
	}

	flipped, err := s.repos.Products.MarkApproved(id)
	if err != nil {
		return nil, apperr.Internal("failed to approve product", err)
	}
	if !flipped {
		return nil, apperr.Conflict("This product has already been processed")
	}
	product.Status = model.ProductApproved

	s.hub.Publish(ws.Event{
		Type:    "approval_queue",
		Action:  "product_approved",
		Payload: product,
	})
	return product, nil
}

// Reject deletes the pending product outright. No rejected record is
// retained for products, unlike stock adjustments.
func (s *productService) Reject(actor model.Actor, id uuid.UUID) error {
	if err := requireAction(actor, model.ActionApproveProduct); err != nil {
		return err
	}
	product, err := s.findInOrg(actor, id)
	if err != nil {
		return err
	}
	if product.Status != model.ProductPending {
		return apperr.Conflict("This product has already been processed")
	}
	if err := s.repos.Products.Delete(id); err != nil {
		return apperr.Internal("failed to reject product", err)
	}
	s.hub.Publish(ws.Event{
		Type:    "approval_queue",
		Action:  "product_rejected",
		Payload: product,
	})
	return nil
}

func (s *productService) List(actor model.Actor) ([]model.Product, error) {
	products, err := s.repos.Products.FindByOrg(actor.OrganizationID)
	if err != nil {
		return nil, apperr.Internal("failed to list products", err)
	}
	return products, nil
}

// Import bulk-creates rows parsed from a spreadsheet. Imported
// products are approved directly, matching the seed path.
func (s *productService) Import(actor model.Actor, rows []ImportProductRow) (int, error) {
	if err := requireAction(actor, model.ActionImportProducts); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, apperr.Validation("No rows to import")
	}

	products := make([]model.Product, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if err := validateStruct(&row); err != nil {
			return 0, apperr.Validation("Row %d invalid: %v", i+1, err)
		}
		products = append(products, model.Product{
			Name:           row.Name,
			Category:       row.Category,
			Price:          row.Price,
			Stock:          row.Stock,
			Status:         model.ProductApproved,
			OrganizationID: actor.OrganizationID,
		})
	}
	if err := s.repos.Products.CreateBatch(products); err != nil {
		return 0, apperr.Internal("failed to import products", err)
	}
	return len(products), nil
}

// ResetInventory wipes procurement and product data for the org, in
// dependency order, atomically.
func (s *productService) ResetInventory(actor model.Actor) error {
	if err := requireAction(actor, model.ActionDangerZone); err != nil {
		return err
	}
	err := s.scope.Atomic(func(r repository.Repos) error {
		if err := r.Procurements.DeleteByOrg(actor.OrganizationID); err != nil {
			return err
		}
		return r.Products.DeleteByOrg(actor.OrganizationID)
	})
	if err != nil {
		return apperr.Internal("failed to reset inventory", err)
	}
	return nil
}

func (s *productService) findInOrg(actor model.Actor, id uuid.UUID) (*model.Product, error) {
	product, err := s.repos.Products.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Product")
	}
	if product.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound("Product not found")
	}
	return product, nil
}
