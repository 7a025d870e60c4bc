package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
	"github.com/shinerking/nexusflow/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the persistent store. The tx
// scope built on it clones the whole store, runs the function against
// the clone, and commits only on success, so rollback behavior is real.
type memStore struct {
	orgs     map[uuid.UUID]model.Organization
	users    map[uuid.UUID]model.User
	products map[uuid.UUID]model.Product
	logs     map[uuid.UUID]model.StockLog
	procs    map[uuid.UUID]model.Procurement
}

func newMemStore() *memStore {
	return &memStore{
		orgs:     make(map[uuid.UUID]model.Organization),
		users:    make(map[uuid.UUID]model.User),
		products: make(map[uuid.UUID]model.Product),
		logs:     make(map[uuid.UUID]model.StockLog),
		procs:    make(map[uuid.UUID]model.Procurement),
	}
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range m.orgs {
		c.orgs[k] = v
	}
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.products {
		c.products[k] = v
	}
	for k, v := range m.logs {
		c.logs[k] = v
	}
	for k, v := range m.procs {
		c.procs[k] = v
	}
	return c
}

func (m *memStore) repos() repository.Repos {
	return repository.Repos{
		Organizations: &memOrgRepo{m},
		Users:         &memUserRepo{m},
		Products:      &memProductRepo{m},
		StockLogs:     &memStockLogRepo{m},
		Procurements:  &memProcurementRepo{m},
	}
}

type memScope struct {
	s *memStore
}

func (sc *memScope) Atomic(fn func(r repository.Repos) error) error {
	staging := sc.s.clone()
	if err := fn(staging.repos()); err != nil {
		return err
	}
	*sc.s = *staging
	return nil
}

func stamp(b *model.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = time.Now()
}

// --- organizations ---

type memOrgRepo struct{ s *memStore }

func (r *memOrgRepo) Create(org *model.Organization) error {
	stamp(&org.BaseModel)
	r.s.orgs[org.ID] = *org
	return nil
}

func (r *memOrgRepo) First() (*model.Organization, error) {
	for _, o := range r.s.orgs {
		org := o
		return &org, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrgRepo) FindByID(id uuid.UUID) (*model.Organization, error) {
	if o, ok := r.s.orgs[id]; ok {
		return &o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrgRepo) FindBySlug(slug string) (*model.Organization, error) {
	for _, o := range r.s.orgs {
		if o.Slug == slug {
			org := o
			return &org, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrgRepo) UpdateName(id uuid.UUID, name string) error {
	o, ok := r.s.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Name = name
	r.s.orgs[id] = o
	return nil
}

// --- users ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(user *model.User) error {
	stamp(&user.BaseModel)
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByOrg(orgID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.s.users {
		if u.OrganizationID == orgID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) FindNotifiableManagers(orgID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.s.users {
		if u.OrganizationID == orgID && u.Role == model.RoleManager && u.EmailNotifications {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateName(id uuid.UUID, name string) error {
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Name = name
	r.s.users[id] = u
	return nil
}

// --- products ---

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(product *model.Product) error {
	stamp(&product.BaseModel)
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) CreateBatch(products []model.Product) error {
	for i := range products {
		stamp(&products[i].BaseModel)
		r.s.products[products[i].ID] = products[i]
	}
	return nil
}

func (r *memProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if p, ok := r.s.products[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) FindByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	sortByCreatedDesc(out, func(p model.Product) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *memProductRepo) FindPendingByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.OrganizationID == orgID && p.Status == model.ProductPending {
			out = append(out, p)
		}
	}
	sortByCreatedDesc(out, func(p model.Product) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *memProductRepo) CountPendingByOrg(orgID uuid.UUID) (int64, error) {
	list, _ := r.FindPendingByOrg(orgID)
	return int64(len(list)), nil
}

func (r *memProductRepo) CountByOrg(orgID uuid.UUID) (int64, error) {
	list, _ := r.FindByOrg(orgID)
	return int64(len(list)), nil
}

func (r *memProductRepo) CountLowStockByOrg(orgID uuid.UUID, threshold int) (int64, error) {
	var count int64
	for _, p := range r.s.products {
		if p.OrganizationID == orgID && p.Stock < threshold {
			count++
		}
	}
	return count, nil
}

func (r *memProductRepo) UpdateDetails(id uuid.UUID, name, category string, price *float64) error {
	p, ok := r.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Name = name
	p.Category = category
	p.Price = price
	r.s.products[id] = p
	return nil
}

func (r *memProductRepo) MarkApproved(id uuid.UUID) (bool, error) {
	p, ok := r.s.products[id]
	if !ok || p.Status != model.ProductPending {
		return false, nil
	}
	p.Status = model.ProductApproved
	r.s.products[id] = p
	return true, nil
}

func (r *memProductRepo) ApplyStockDelta(id uuid.UUID, delta int) (bool, error) {
	p, ok := r.s.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	r.s.products[id] = p
	return true, nil
}

func (r *memProductRepo) Delete(id uuid.UUID) error {
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) DeleteByOrg(orgID uuid.UUID) error {
	for id, p := range r.s.products {
		if p.OrganizationID == orgID {
			delete(r.s.products, id)
		}
	}
	return nil
}

// --- stock logs ---

type memStockLogRepo struct{ s *memStore }

func (r *memStockLogRepo) Create(log *model.StockLog) error {
	stamp(&log.BaseModel)
	stored := *log
	stored.Product = nil
	stored.User = nil
	r.s.logs[log.ID] = stored
	return nil
}

func (r *memStockLogRepo) attach(l model.StockLog) model.StockLog {
	if p, ok := r.s.products[l.ProductID]; ok {
		product := p
		l.Product = &product
	}
	if u, ok := r.s.users[l.UserID]; ok {
		user := u
		l.User = &user
	}
	return l
}

func (r *memStockLogRepo) FindByID(id uuid.UUID) (*model.StockLog, error) {
	if l, ok := r.s.logs[id]; ok {
		full := r.attach(l)
		return &full, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memStockLogRepo) inOrg(l model.StockLog, orgID uuid.UUID) bool {
	p, ok := r.s.products[l.ProductID]
	return ok && p.OrganizationID == orgID
}

func (r *memStockLogRepo) FindByOrg(orgID uuid.UUID) ([]model.StockLog, error) {
	var out []model.StockLog
	for _, l := range r.s.logs {
		if r.inOrg(l, orgID) {
			out = append(out, r.attach(l))
		}
	}
	sortByCreatedDesc(out, func(l model.StockLog) time.Time { return l.CreatedAt })
	return out, nil
}

func (r *memStockLogRepo) FindPendingByOrg(orgID uuid.UUID) ([]model.StockLog, error) {
	var out []model.StockLog
	for _, l := range r.s.logs {
		if l.Status == model.StatusPending && r.inOrg(l, orgID) {
			out = append(out, r.attach(l))
		}
	}
	sortByCreatedDesc(out, func(l model.StockLog) time.Time { return l.CreatedAt })
	return out, nil
}

func (r *memStockLogRepo) CountPendingByOrg(orgID uuid.UUID) (int64, error) {
	list, _ := r.FindPendingByOrg(orgID)
	return int64(len(list)), nil
}

func (r *memStockLogRepo) FindByUser(userID uuid.UUID) ([]model.StockLog, error) {
	var out []model.StockLog
	for _, l := range r.s.logs {
		if l.UserID == userID {
			out = append(out, r.attach(l))
		}
	}
	sortByCreatedDesc(out, func(l model.StockLog) time.Time { return l.CreatedAt })
	return out, nil
}

func (r *memStockLogRepo) MarkApproved(id, approverID uuid.UUID) (bool, error) {
	l, ok := r.s.logs[id]
	if !ok || l.Status != model.StatusPending {
		return false, nil
	}
	l.Status = model.StatusApproved
	l.ApprovedBy = &approverID
	r.s.logs[id] = l
	return true, nil
}

func (r *memStockLogRepo) MarkRejected(id, rejecterID uuid.UUID, reason string) (bool, error) {
	l, ok := r.s.logs[id]
	if !ok || l.Status != model.StatusPending {
		return false, nil
	}
	l.Status = model.StatusRejected
	l.RejectionReason = &reason
	l.RejectedBy = &rejecterID
	r.s.logs[id] = l
	return true, nil
}

// --- procurements ---

type memProcurementRepo struct{ s *memStore }

func (r *memProcurementRepo) Create(p *model.Procurement) error {
	stamp(&p.BaseModel)
	r.s.procs[p.ID] = *p
	return nil
}

func (r *memProcurementRepo) FindByID(id uuid.UUID) (*model.Procurement, error) {
	if p, ok := r.s.procs[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProcurementRepo) FindByOrg(orgID uuid.UUID) ([]model.Procurement, error) {
	var out []model.Procurement
	for _, p := range r.s.procs {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	sortByCreatedDesc(out, func(p model.Procurement) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *memProcurementRepo) CountPendingByOrg(orgID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range r.s.procs {
		if p.OrganizationID == orgID && p.Status == model.StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *memProcurementRepo) MarkStatus(id uuid.UUID, status model.ApprovalStatus) (bool, error) {
	p, ok := r.s.procs[id]
	if !ok || p.Status != model.StatusPending {
		return false, nil
	}
	p.Status = status
	r.s.procs[id] = p
	return true, nil
}

func (r *memProcurementRepo) Delete(id uuid.UUID) error {
	delete(r.s.procs, id)
	return nil
}

func (r *memProcurementRepo) DeleteByOrg(orgID uuid.UUID) error {
	for id, p := range r.s.procs {
		if p.OrganizationID == orgID {
			delete(r.s.procs, id)
		}
	}
	return nil
}

func sortByCreatedDesc[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}

// --- mail fakes ---

type recordingSender struct {
	sent chan sentMail
}

type sentMail struct {
	To      []string
	Subject string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan sentMail, 16)}
}

func (s *recordingSender) Send(to []string, subject, htmlBody string) error {
	s.sent <- sentMail{To: to, Subject: subject}
	return nil
}

type failingSender struct{}

func (failingSender) Send(to []string, subject, htmlBody string) error {
	return fmt.Errorf("smtp relay unreachable")
}

// --- environment ---

type testEnv struct {
	store   *memStore
	repos   repository.Repos
	scope   repository.TxScope
	sender  *recordingSender
	hub     *ws.Hub
	org     model.Organization
	admin   model.Actor
	manager model.Actor
	staff   model.Actor
	auditor model.Actor
}

func newTestEnv() *testEnv {
	store := newMemStore()
	env := &testEnv{
		store:  store,
		repos:  store.repos(),
		scope:  &memScope{store},
		sender: newRecordingSender(),
		hub:    ws.NewHub(),
	}

	env.org = model.Organization{Name: "Demo Corp", Slug: "demo-corp"}
	env.repos.Organizations.Create(&env.org)

	env.admin = env.addUser("Alice Admin", "alice@demo.test", model.RoleAdmin)
	env.manager = env.addUser("Mark Manager", "mark@demo.test", model.RoleManager)
	env.staff = env.addUser("Sam Staff", "sam@demo.test", model.RoleStaff)
	env.auditor = env.addUser("Ann Auditor", "ann@demo.test", model.RoleAuditor)
	return env
}

func (e *testEnv) addUser(name, email string, role model.Role) model.Actor {
	u := model.User{Name: name, Email: email, Role: role, OrganizationID: e.org.ID, EmailNotifications: true}
	e.repos.Users.Create(&u)
	return u.AsActor()
}

func (e *testEnv) addProduct(name string, stock int, status model.ProductStatus) *model.Product {
	p := &model.Product{Name: name, Category: "Electronics", Stock: stock, Status: status, OrganizationID: e.org.ID}
	e.repos.Products.Create(p)
	return p
}

func (e *testEnv) stockService() StockService {
	return NewStockService(e.repos, e.scope, e.sender, e.hub, zap.NewNop().Sugar())
}

func (e *testEnv) productService() ProductService {
	return NewProductService(e.repos, e.scope, e.hub, zap.NewNop().Sugar())
}

func (e *testEnv) approvalService() ApprovalService {
	return NewApprovalService(e.repos, e.productService(), e.stockService())
}

func (e *testEnv) procurementService() ProcurementService {
	return NewProcurementService(e.repos, e.sender, zap.NewNop().Sugar())
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func (e *testEnv) productStock(id uuid.UUID) int {
	p, _ := e.repos.Products.FindByID(id)
	return p.Stock
}
