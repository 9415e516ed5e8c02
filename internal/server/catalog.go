package server

import (
	"github.com/atl3/trendpanel/internal/model"
	"github.com/shopspring/decimal"
)

// PaymentMethod describes one way to top up the balance. Min is the
// smallest accepted deposit; Fee is display-only.
type PaymentMethod struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Min  decimal.Decimal `json:"min"`
	Fee  string          `json:"fee"`
}

func defaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: "card", Name: "Credit Card", Min: decimal.NewFromInt(10), Fee: "0%"},
		{ID: "crypto", Name: "Crypto", Min: decimal.NewFromInt(20), Fee: "1%"},
		{ID: "wallet", Name: "E-Wallet", Min: decimal.NewFromInt(5), Fee: "2%"},
		{ID: "egy_wallet", Name: "Mobile Wallet", Min: decimal.NewFromInt(1), Fee: "0%"},
		{ID: "payoneer", Name: "Payoneer", Min: decimal.NewFromInt(50), Fee: "1%"},
	}
}

// defaultCatalog seeds the service list on first boot. Rates are per
// 1000 units.
func defaultCatalog() []model.Service {
	return []model.Service{
		{ID: "101", Name: "TikTok Views", Type: "Default", Rate: decimal.NewFromFloat(0.50), Min: 1000, Max: 1000000, Category: "TikTok / Views"},
		{ID: "102", Name: "TikTok Views HQ", Type: "Default", Rate: decimal.NewFromFloat(1.20), Min: 500, Max: 500000, Category: "TikTok / Views"},
		{ID: "103", Name: "TikTok Likes", Type: "Default", Rate: decimal.NewFromFloat(2.30), Min: 100, Max: 50000, Category: "TikTok / Likes"},
		{ID: "201", Name: "Instagram Followers", Type: "Default", Rate: decimal.NewFromFloat(3.50), Min: 50, Max: 100000, Category: "Instagram / Followers"},
		{ID: "202", Name: "Instagram Followers HQ", Type: "Default", Rate: decimal.NewFromFloat(8.00), Min: 50, Max: 50000, Category: "Instagram / Followers"},
		{ID: "301", Name: "YouTube Subscribers", Type: "Default", Rate: decimal.NewFromFloat(12.00), Min: 50, Max: 5000, Category: "YouTube / Subscribers"},
		{ID: "401", Name: "Snapchat Story Views", Type: "Default", Rate: decimal.NewFromFloat(1.50), Min: 1000, Max: 1000000, Category: "Snapchat / Views"},
	}
}

func findService(services []model.Service, id string) (model.Service, bool) {
	for _, svc := range services {
		if svc.ID == id {
			return svc, true
		}
	}
	return model.Service{}, false
}

func findPaymentMethod(methods []PaymentMethod, id string) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
