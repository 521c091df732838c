// Package memory is a mutex-guarded implementation of the repository
// interfaces. It carries the same atomicity rules as the Postgres layer:
// every stock move happens under the store lock together with the line move,
// so concurrent callers observe all-or-nothing behavior.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alloyhq/console/backend-go/internal/domain"
)

type Store struct {
	mu sync.Mutex

	nextID  int64
	dealers map[int64]domain.Dealer
	prods   map[int64]domain.Product
	stock   map[int64]*domain.ProductStock
	plans   map[int64]*domain.ProductionPlan
	lines   map[int64]*domain.OrderLine

	categories []domain.CostCategory
	overheads  []domain.MonthlyOverheadValue
	volumes    map[[2]int]int
}

func NewStore() *Store {
	return &Store{
		nextID:  1,
		dealers: make(map[int64]domain.Dealer),
		prods:   make(map[int64]domain.Product),
		stock:   make(map[int64]*domain.ProductStock),
		plans:   make(map[int64]*domain.ProductionPlan),
		lines:   make(map[int64]*domain.OrderLine),
		volumes: make(map[[2]int]int),
	}
}

// Fixture helpers

func (s *Store) AddDealer(d domain.Dealer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dealers[d.ID] = d
}

func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prods[p.ID] = p
}

func (s *Store) SetStock(productID int64, available, reserved int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productID] = &domain.ProductStock{ProductID: productID, Available: available, Reserved: reserved}
}

func (s *Store) AddPlan(p domain.ProductionPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := p
	s.plans[p.ID] = &plan
}

func (s *Store) AddCategory(c domain.CostCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

func (s *Store) AddOverheadValue(v domain.MonthlyOverheadValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overheads = append(s.overheads, v)
}

func (s *Store) SetProductionVolume(year, month, volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes[[2]int{year, month}] = volume
}

// SetLineAllocation records production output allocated to an in-production
// line, mirroring what the production module does when a run completes.
func (s *Store) SetLineAllocation(lineID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line, ok := s.lines[lineID]; ok {
		line.AllocatedQuantity = quantity
		if line.ProductionPlanID != nil {
			if plan, ok := s.plans[*line.ProductionPlanID]; ok {
				plan.AllocatedQuantity += quantity
			}
		}
	}
}

// OrderRepository

func (s *Store) CreateOrderLine(ctx context.Context, line *domain.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line.EntryStatus == domain.EntryDispatch {
		if err := s.reserveLocked(line.ProductID, line.Quantity); err != nil {
			return err
		}
	}

	line.ID = s.nextID
	s.nextID++
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}

	stored := *line
	s.lines[stored.ID] = &stored

	return nil
}

func (s *Store) reserveLocked(productID int64, quantity int) error {
	stock, ok := s.stock[productID]
	if !ok || stock.Available < quantity {
		available := 0
		if ok {
			available = stock.Available
		}
		return &domain.InsufficientStockError{ProductID: productID, Required: quantity, Available: available}
	}

	stock.Available -= quantity
	stock.Reserved += quantity
	return nil
}

func (s *Store) GetOrderLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "order line", ID: id}
	}

	copied := *line
	return &copied, nil
}

func (s *Store) PromoteLine(ctx context.Context, id int64) (*domain.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "order line", ID: id}
	}

	switch line.EntryStatus {
	case domain.EntryPending:
		if err := s.reserveLocked(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}

	case domain.EntryInProduction:
		if line.ProductionPlanID == nil {
			return nil, &domain.ConflictError{Reason: "in-production line has no plan"}
		}
		plan, ok := s.plans[*line.ProductionPlanID]
		if !ok {
			return nil, &domain.NotFoundError{Entity: "production plan", ID: *line.ProductionPlanID}
		}
		if plan.InHouseStock < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Required:  line.Quantity,
				Available: plan.InHouseStock,
			}
		}
		plan.InHouseStock -= line.Quantity
		stock, ok := s.stock[line.ProductID]
		if !ok {
			stock = &domain.ProductStock{ProductID: line.ProductID}
			s.stock[line.ProductID] = stock
		}
		stock.Reserved += line.Quantity

	default:
		current := domain.DispatchAwaitingApproval
		if line.DispatchStatus != nil {
			current = *line.DispatchStatus
		}
		return nil, &domain.InvalidStateError{CurrentState: current, Attempted: "promote"}
	}

	line.EntryStatus = domain.EntryDispatch
	status := domain.DispatchAwaitingApproval
	line.DispatchStatus = &status
	line.ProcessedAt = nil

	copied := *line
	return &copied, nil
}

func (s *Store) TransitionDispatch(ctx context.Context, id int64, from, to domain.DispatchStatus, setProcessedAt bool) (*domain.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "order line", ID: id}
	}

	if line.EntryStatus != domain.EntryDispatch || line.DispatchStatus == nil || *line.DispatchStatus != from {
		current := domain.DispatchStatus("")
		if line.DispatchStatus != nil {
			current = *line.DispatchStatus
		}
		return nil, &domain.InvalidStateError{CurrentState: current, Attempted: string(to)}
	}

	status := to
	line.DispatchStatus = &status
	if setProcessedAt {
		now := time.Now()
		line.ProcessedAt = &now
	}

	copied := *line
	return &copied, nil
}

func (s *Store) DeleteLine(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return &domain.NotFoundError{Entity: "order line", ID: id}
	}

	switch line.EntryStatus {
	case domain.EntryDispatch:
		if line.DispatchStatus == nil || !line.DispatchStatus.Deletable() {
			current := domain.DispatchApproved
			if line.DispatchStatus != nil {
				current = *line.DispatchStatus
			}
			return &domain.InvalidStateError{CurrentState: current, Attempted: "delete"}
		}
		stock, ok := s.stock[line.ProductID]
		if !ok {
			stock = &domain.ProductStock{ProductID: line.ProductID}
			s.stock[line.ProductID] = stock
		}
		stock.Available += line.Quantity
		stock.Reserved -= line.Quantity
		if stock.Reserved < 0 {
			stock.Reserved = 0
		}

	case domain.EntryInProduction:
		if line.AllocatedQuantity > 0 && line.ProductionPlanID != nil {
			if plan, ok := s.plans[*line.ProductionPlanID]; ok {
				plan.AllocatedQuantity -= line.AllocatedQuantity
				if plan.AllocatedQuantity < 0 {
					plan.AllocatedQuantity = 0
				}
			}
		}

	case domain.EntryPending:
		// nothing was reserved
	}

	delete(s.lines, id)
	return nil
}

func (s *Store) ListDispatch(ctx context.Context, status domain.DispatchStatus, filter domain.ListFilter) (*domain.OrderLinePage, error) {
	filter.Normalize()

	s.mu.Lock()
	matched := []domain.OrderLine{}
	for _, line := range s.lines {
		if line.EntryStatus != domain.EntryDispatch || line.DispatchStatus == nil || *line.DispatchStatus != status {
			continue
		}
		if !matchesSearch(line, filter.Search) {
			continue
		}
		if !filter.Dates.IsZero() {
			ts := line.CreatedAt
			if status == domain.DispatchApproved {
				if line.ProcessedAt == nil {
					continue
				}
				ts = *line.ProcessedAt
			}
			if !filter.Dates.Contains(ts) {
				continue
			}
		}
		matched = append(matched, *line)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &domain.OrderLinePage{
		Data:       matched[start:end],
		Pagination: domain.Pagination{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (s *Store) ListDispatchBacklog(ctx context.Context) ([]domain.OrderLine, error) {
	s.mu.Lock()
	matched := []domain.OrderLine{}
	for _, line := range s.lines {
		if line.EntryStatus == domain.EntryDispatch && line.DispatchStatus != nil && *line.DispatchStatus == domain.DispatchSentForDispatch {
			matched = append(matched, *line)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	return matched, nil
}

func (s *Store) ListEntries(ctx context.Context, status domain.EntryStatus, filter domain.ListFilter) (*domain.OrderLinePage, error) {
	filter.Normalize()

	s.mu.Lock()
	matched := []domain.OrderLine{}
	for _, line := range s.lines {
		if line.EntryStatus != status {
			continue
		}
		if !matchesSearch(line, filter.Search) {
			continue
		}
		if !filter.Dates.IsZero() && !filter.Dates.Contains(line.CreatedAt) {
			continue
		}
		matched = append(matched, *line)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &domain.OrderLinePage{
		Data:       matched[start:end],
		Pagination: domain.Pagination{Total: total, Page: filter.Page, Limit: filter.Limit},
	}, nil
}

func (s *Store) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.OrderLine, error) {
	s.mu.Lock()
	matched := []domain.OrderLine{}
	for _, line := range s.lines {
		if !line.CreatedAt.Before(from) && line.CreatedAt.Before(to) {
			matched = append(matched, *line)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		if !line.CreatedAt.Before(from) && line.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func matchesSearch(line *domain.OrderLine, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(line.DealerName), needle) ||
		strings.Contains(strings.ToLower(line.ProductName), needle)
}

// MasterRepository

func (s *Store) GetDealer(ctx context.Context, id int64) (*domain.Dealer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dealer, ok := s.dealers[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "dealer", ID: id}
	}
	return &dealer, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.prods[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	return &product, nil
}

func (s *Store) GetStock(ctx context.Context, productID int64) (*domain.ProductStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, ok := s.stock[productID]
	if !ok {
		return &domain.ProductStock{ProductID: productID}, nil
	}
	copied := *stock
	return &copied, nil
}

func (s *Store) GetActivePlan(ctx context.Context, productID int64) (*domain.ProductionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *domain.ProductionPlan
	for _, plan := range s.plans {
		if plan.ProductID != productID || !plan.Active {
			continue
		}
		if latest == nil || plan.CreatedAt.After(latest.CreatedAt) {
			latest = plan
		}
	}
	if latest == nil {
		return nil, nil
	}

	copied := *latest
	return &copied, nil
}

func (s *Store) GetPlan(ctx context.Context, id int64) (*domain.ProductionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "production plan", ID: id}
	}
	copied := *plan
	return &copied, nil
}

func (s *Store) ListActivePlans(ctx context.Context) ([]domain.ProductionPlan, error) {
	s.mu.Lock()
	plans := []domain.ProductionPlan{}
	for _, plan := range s.plans {
		if plan.Active {
			plans = append(plans, *plan)
		}
	}
	s.mu.Unlock()

	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.Before(plans[j].CreatedAt) })
	return plans, nil
}

func (s *Store) ListLowStock(ctx context.Context, threshold int) ([]domain.LowStockItem, error) {
	s.mu.Lock()
	items := []domain.LowStockItem{}
	for _, stock := range s.stock {
		if stock.Available > threshold {
			continue
		}
		name := ""
		if product, ok := s.prods[stock.ProductID]; ok {
			name = product.Name
		}
		items = append(items, domain.LowStockItem{
			ProductID:   stock.ProductID,
			ProductName: name,
			Available:   stock.Available,
			Reserved:    stock.Reserved,
		})
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Available == items[j].Available {
			return items[i].ProductName < items[j].ProductName
		}
		return items[i].Available < items[j].Available
	})
	return items, nil
}

// CostRepository

func (s *Store) ListCategories(ctx context.Context) ([]domain.CostCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CostCategory, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *Store) ListOverheadValues(ctx context.Context, year, month int) ([]domain.MonthlyOverheadValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.MonthlyOverheadValue{}
	for _, v := range s.overheads {
		if v.Year == year && v.Month == month {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) ProductionVolume(ctx context.Context, year, month int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volumes[[2]int{year, month}], nil
}
