package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SupabaseClient reads product metrics from an external Supabase project's
// REST surface using the service-role key.
type SupabaseClient struct {
	http *resty.Client
}

// Subscription is the slice of the subscriptions table the sync cares about.
type Subscription struct {
	Status string  `json:"status"`
	Price  float64 `json:"price"`
}

func NewSupabaseClient(baseURL, serviceRoleKey string) *SupabaseClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(serviceRoleKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &SupabaseClient{http: c}
}

// CountUsers calls the count_users RPC and returns the reported total.
func (c *SupabaseClient) CountUsers(ctx context.Context) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/rest/v1/rpc/count_users")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("count_users: http %d", resp.StatusCode())
	}
	return body.Count, nil
}

// Subscriptions lists all subscription rows.
func (c *SupabaseClient) Subscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&subs).
		SetQueryParam("select", "*").
		Get("/rest/v1/subscriptions")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("subscriptions: http %d", resp.StatusCode())
	}
	return subs, nil
}
