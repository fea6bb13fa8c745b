package appliance

import (
	"context"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// Current activity is a bulk payload passed through without conversion.
var (
	CurrentActivity = resource.NewSchema("current-activity",
		resource.URI("/v1/analytics/activity/current"),
	)

	ActivityType    = resource.DeclareQuery(CurrentActivity, "type", "type")
	ActivityEntries = resource.Declare(CurrentActivity, "entries", resource.Opaque)
)

// GetCurrentActivity fetches the current throughput and IOPS samples.
// activityType filters the samples, e.g. "file-iops-read"; empty returns all.
func GetCurrentActivity(ctx context.Context, exec resource.Executor, activityType string, opts ...resource.CallOption) ([]any, error) {
	r := resource.New(CurrentActivity, nil)
	if activityType != "" {
		if err := ActivityType.Set(r, activityType); err != nil {
			return nil, err
		}
	}
	if _, err := r.Get(ctx, exec, opts...); err != nil {
		return nil, err
	}
	v, err := ActivityEntries.Get(r)
	if err != nil {
		return nil, err
	}
	entries, _ := v.([]any)
	return entries, nil
}
