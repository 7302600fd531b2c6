// Package metrics syncs product metrics from the external Supabase project
// and records operational activity (outreach, social, deploys) in the log.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vibegen/mission-control/internal/model"
	"github.com/vibegen/mission-control/internal/services"
)

// Service wraps the Supabase client and turns every sync outcome into an
// activity record. Failures are converted to structured results; nothing
// here ever propagates a fatal state and nothing is retried automatically.
type Service struct {
	activity *services.ActivityService
	client   *SupabaseClient
	log      zerolog.Logger
}

func NewService(activity *services.ActivityService, client *SupabaseClient, log zerolog.Logger) *Service {
	return &Service{activity: activity, client: client, log: log}
}

// SyncResult is the structured outcome handed back to the caller. Error is
// set instead of returning a Go error so a failed sync still renders.
type SyncResult struct {
	Success             bool      `json:"success"`
	Users               int       `json:"users,omitempty"`
	ActiveSubscriptions int       `json:"activeSubscriptions,omitempty"`
	TotalRevenue        float64   `json:"totalRevenue,omitempty"`
	Timestamp           time.Time `json:"timestamp,omitempty"`
	ActivityID          string    `json:"activityId,omitempty"`
	Error               string    `json:"error,omitempty"`
}

// Summary is the latest synced snapshot, read back from the activity log.
type Summary struct {
	Users               int        `json:"users"`
	ActiveSubscriptions int        `json:"activeSubscriptions"`
	TotalRevenue        float64    `json:"totalRevenue"`
	LastSync            *time.Time `json:"lastSync"`
}

// Sync pulls user and subscription counts from Supabase and logs the result
// as an "analytics" activity.
func (s *Service) Sync(ctx context.Context) *SyncResult {
	if s.client == nil {
		return &SyncResult{Error: "missing Supabase service role key"}
	}

	users, err := s.client.CountUsers(ctx)
	if err != nil {
		return s.syncFailed(ctx, err)
	}
	subs, err := s.client.Subscriptions(ctx)
	if err != nil {
		return s.syncFailed(ctx, err)
	}

	active := 0
	revenue := 0.0
	for _, sub := range subs {
		if sub.Status == "active" {
			active++
			revenue += sub.Price
		}
	}

	act, err := s.activity.Create(ctx, &model.Activity{
		ActionType:  "analytics",
		Description: fmt.Sprintf("VibeGen metrics sync: %d users, %d active subscriptions, %.0f KES revenue", users, active, revenue),
		Status:      model.ActivitySuccess,
		Metadata: model.Metadata{
			"users":               users,
			"activeSubscriptions": active,
			"totalRevenue":        revenue,
			"syncedAt":            time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return s.syncFailed(ctx, err)
	}

	return &SyncResult{
		Success:             true,
		Users:               users,
		ActiveSubscriptions: active,
		TotalRevenue:        revenue,
		Timestamp:           act.Timestamp,
		ActivityID:          act.ID,
	}
}

func (s *Service) syncFailed(ctx context.Context, cause error) *SyncResult {
	s.log.Warn().Err(cause).Msg("metrics sync failed")
	_, err := s.activity.Create(ctx, &model.Activity{
		ActionType:  "analytics",
		Description: fmt.Sprintf("Failed to sync VibeGen metrics: %s", cause.Error()),
		Status:      model.ActivityError,
		Metadata:    model.Metadata{"error": cause.Error()},
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to record sync failure")
	}
	return &SyncResult{Error: cause.Error()}
}

// GetSummary reads the most recent "analytics" activity back out of the log.
// A log with no sync yet yields a zero summary, not an error.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	latest, err := s.activity.LatestByActionType(ctx, "analytics")
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &Summary{}, nil
		}
		return nil, err
	}
	if latest.Metadata == nil {
		return &Summary{}, nil
	}
	ts := latest.Timestamp
	return &Summary{
		Users:               metaInt(latest.Metadata, "users"),
		ActiveSubscriptions: metaInt(latest.Metadata, "activeSubscriptions"),
		TotalRevenue:        metaFloat(latest.Metadata, "totalRevenue"),
		LastSync:            &ts,
	}, nil
}

// OutreachStatus is the closed set of creator-outreach outcomes.
type OutreachStatus string

const (
	OutreachSent      OutreachStatus = "sent"
	OutreachResponded OutreachStatus = "responded"
	OutreachConverted OutreachStatus = "converted"
	OutreachBounced   OutreachStatus = "bounced"
)

func (o OutreachStatus) Valid() bool {
	switch o {
	case OutreachSent, OutreachResponded, OutreachConverted, OutreachBounced:
		return true
	}
	return false
}

var outreachStatusMap = map[OutreachStatus]model.ActivityStatus{
	OutreachSent:      model.ActivityPending,
	OutreachResponded: model.ActivityInfo,
	OutreachConverted: model.ActivitySuccess,
	OutreachBounced:   model.ActivityError,
}

// LogOutreach records a creator-outreach touch as a "social" activity.
func (s *Service) LogOutreach(ctx context.Context, creatorHandle, platform string, status OutreachStatus, notes *string) (*model.Activity, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid outreach status %q", model.ErrValidation, status)
	}
	desc := fmt.Sprintf("Creator outreach (%s): @%s - %s", platform, creatorHandle, status)
	md := model.Metadata{
		"creatorHandle":  creatorHandle,
		"platform":       platform,
		"outreachStatus": string(status),
	}
	if notes != nil && *notes != "" {
		desc += fmt.Sprintf(" (%s)", *notes)
		md["notes"] = *notes
	}
	return s.activity.Create(ctx, &model.Activity{
		ActionType:  "social",
		Description: desc,
		Status:      outreachStatusMap[status],
		Metadata:    md,
	})
}

// SocialMetrics are optional engagement numbers attached to a social action.
type SocialMetrics struct {
	Likes    int `json:"likes,omitempty"`
	Comments int `json:"comments,omitempty"`
	Shares   int `json:"shares,omitempty"`
	Reach    int `json:"reach,omitempty"`
}

// LogSocialAction records a post/schedule/engagement action on a platform.
func (s *Service) LogSocialAction(ctx context.Context, action, platform, description string, m *SocialMetrics) (*model.Activity, error) {
	desc := fmt.Sprintf("[%s] %s", platform, description)
	md := model.Metadata{
		"platform": platform,
		"action":   action,
	}
	if m != nil {
		desc += fmt.Sprintf(" (%d likes, %d comments, %d reach)", m.Likes, m.Comments, m.Reach)
		md["likes"] = m.Likes
		md["comments"] = m.Comments
		md["shares"] = m.Shares
		md["reach"] = m.Reach
	}
	return s.activity.Create(ctx, &model.Activity{
		ActionType:  "social",
		Description: desc,
		Status:      model.ActivitySuccess,
		Metadata:    md,
	})
}

// LogDeployment records a deploy/technical action against a service.
func (s *Service) LogDeployment(ctx context.Context, service, action string, status model.ActivityStatus, details *string) (*model.Activity, error) {
	if status != model.ActivitySuccess && status != model.ActivityError {
		return nil, fmt.Errorf("%w: deployment status must be success or error", model.ErrValidation)
	}
	desc := fmt.Sprintf("[%s] %s", service, action)
	if details != nil && *details != "" {
		desc += fmt.Sprintf(" - %s", *details)
	}
	return s.activity.Create(ctx, &model.Activity{
		ActionType:  "deploy",
		Description: desc,
		Status:      status,
		Metadata: model.Metadata{
			"service": service,
			"action":  action,
		},
	})
}

// Metadata numbers survive a JSON round trip as float64; readers accept
// either representation.

func metaInt(md model.Metadata, key string) int {
	switch v := md[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func metaFloat(md model.Metadata, key string) float64 {
	switch v := md[key].(type) {
	case int:
		return float64(v)
	case float64:
		return v
	}
	return 0
}
