package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stock-marketplace/apperror"
	"stock-marketplace/models"
)

// memStore is an in-memory Store with the same error contract as the
// database implementation.
type memStore struct {
	mu sync.Mutex

	nextID       uint
	users        map[uint]models.User
	stocks       map[uint]models.Stock
	holdings     map[uint]models.Portfolio
	applications map[uint]models.Application

	// failWith makes every call fail with this error when set.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uint]models.User{},
		stocks:       map[uint]models.Stock{},
		holdings:     map[uint]models.Portfolio{},
		applications: map[uint]models.Application{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return apperror.New(apperror.Conflict, "Username exists")
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) UserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, apperror.New(apperror.NotFound, "User not found")
}

func (m *memStore) IdentityByToken(_ context.Context, token string) (models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Token == token {
			return models.Identity{ID: u.ID, Username: u.Username, Role: u.Role}, nil
		}
	}
	return models.Identity{}, apperror.New(apperror.NotFound, "User not found")
}

func (m *memStore) CreateApplication(_ context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	app.ID = m.id()
	app.Status = models.StatusPending
	app.CreatedAt = time.Now().Add(time.Duration(app.ID) * time.Millisecond)
	m.applications[app.ID] = *app
	return nil
}

func (m *memStore) ListApplications(_ context.Context, status string) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	apps := []models.Application{}
	for _, app := range m.applications {
		if status == "" || app.Status == status {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

func (m *memStore) AcceptApplication(_ context.Context, id uint) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	app, ok := m.applications[id]
	if !ok || app.Status != models.StatusPending {
		return 0, apperror.New(apperror.NotFound, "Application not found or already processed")
	}
	stock := models.Stock{
		ID:          m.id(),
		Stockname:   app.CompanyName,
		Price:       app.Price,
		Sellername:  app.Sellername,
		Description: app.Description,
	}
	m.stocks[stock.ID] = stock
	app.Status = models.StatusAccepted
	m.applications[id] = app
	return stock.ID, nil
}

func (m *memStore) RejectApplication(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	app, ok := m.applications[id]
	if !ok || app.Status != models.StatusPending {
		return apperror.New(apperror.NotFound, "Application not found or already processed")
	}
	app.Status = models.StatusRejected
	m.applications[id] = app
	return nil
}

func (m *memStore) CreateStock(_ context.Context, stock *models.Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	stock.ID = m.id()
	m.stocks[stock.ID] = *stock
	return nil
}

func (m *memStore) ListStocks(_ context.Context, search string) ([]models.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	term := strings.ToLower(search)
	stocks := []models.Stock{}
	for _, s := range m.stocks {
		if term == "" ||
			strings.Contains(strings.ToLower(s.Stockname), term) ||
			strings.Contains(strings.ToLower(s.Sellername), term) {
			stocks = append(stocks, s)
		}
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ID < stocks[j].ID })
	return stocks, nil
}

func (m *memStore) UpdateStock(_ context.Context, stock models.Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.stocks[stock.ID]; !ok {
		return apperror.New(apperror.NotFound, "Stock not found")
	}
	m.stocks[stock.ID] = stock
	return nil
}

func (m *memStore) DeleteStock(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.stocks[id]; !ok {
		return apperror.New(apperror.NotFound, "Stock not found")
	}
	delete(m.stocks, id)
	return nil
}

func (m *memStore) StockAnalytics(_ context.Context, id uint) (models.StockAnalytics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.StockAnalytics{}, m.failWith
	}
	stock, ok := m.stocks[id]
	if !ok {
		return models.StockAnalytics{}, apperror.New(apperror.NotFound, "Stock not found")
	}

	stats := models.StockAnalytics{
		ID:         stock.ID,
		Stockname:  stock.Stockname,
		Price:      stock.Price,
		Sellername: stock.Sellername,
		Buyers:     []models.Buyer{},
	}
	var sum float64
	for _, h := range m.holdings {
		if h.StockID != id {
			continue
		}
		p := h.PurchasePrice
		if stats.TotalBuyers == 0 {
			stats.MinPurchasePrice, stats.MaxPurchasePrice = &p, &p
		}
		if p < *stats.MinPurchasePrice {
			stats.MinPurchasePrice = &p
		}
		if p > *stats.MaxPurchasePrice {
			stats.MaxPurchasePrice = &p
		}
		sum += p
		stats.TotalBuyers++
		stats.Buyers = append(stats.Buyers, models.Buyer{
			Username:      m.users[h.UserID].Username,
			PurchasePrice: p,
			PurchaseDate:  h.PurchaseDate,
		})
	}
	if stats.TotalBuyers > 0 {
		avg := sum / float64(stats.TotalBuyers)
		stats.AvgPurchasePrice = &avg
	}
	sort.Slice(stats.Buyers, func(i, j int) bool {
		return stats.Buyers[i].PurchaseDate.After(stats.Buyers[j].PurchaseDate)
	})
	return stats, nil
}

func (m *memStore) BuyStock(_ context.Context, userID, stockID uint) (models.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.Stock{}, m.failWith
	}
	stock, ok := m.stocks[stockID]
	if !ok {
		return models.Stock{}, apperror.New(apperror.NotFound, "Stock not found")
	}
	for _, h := range m.holdings {
		if h.UserID == userID && h.StockID == stockID {
			return models.Stock{}, apperror.New(apperror.Conflict, "You already own this stock")
		}
	}
	h := models.Portfolio{
		ID:            m.id(),
		UserID:        userID,
		StockID:       stockID,
		PurchasePrice: stock.Price,
		PurchaseDate:  time.Now(),
	}
	m.holdings[h.ID] = h
	return stock, nil
}

func (m *memStore) Portfolio(_ context.Context, userID uint) ([]models.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	items := []models.PortfolioItem{}
	for _, h := range m.holdings {
		if h.UserID != userID {
			continue
		}
		s, ok := m.stocks[h.StockID]
		if !ok {
			continue
		}
		items = append(items, models.PortfolioItem{
			ID:            h.ID,
			StockID:       h.StockID,
			PurchasePrice: h.PurchasePrice,
			Stockname:     s.Stockname,
			CurrentPrice:  s.Price,
			Sellername:    s.Sellername,
			Description:   s.Description,
			PurchaseDate:  h.PurchaseDate,
			ProfitLoss:    s.Price - h.PurchasePrice,
		})
	}
	return items, nil
}

func (m *memStore) SellHolding(_ context.Context, userID, holdingID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	h, ok := m.holdings[holdingID]
	if !ok || h.UserID != userID {
		return apperror.New(apperror.NotFound, "Portfolio item not found")
	}
	delete(m.holdings, holdingID)
	return nil
}

func (m *memStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memStore) stockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stocks)
}

func (m *memStore) holdingCount(userID, stockID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.holdings {
		if h.UserID == userID && h.StockID == stockID {
			n++
		}
	}
	return n
}
