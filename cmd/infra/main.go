package main

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/qwertytam/mtlockyer/internal/deploy"
	"github.com/qwertytam/mtlockyer/internal/stack"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC RECOVERED: %v", r)
				log.Printf("Stack trace:\n%s", debug.Stack())
				err = fmt.Errorf("panic occurred: %v", r)
			}
		}()

		cfg := config.New(ctx, "")

		dc := stack.DeploymentConfig{
			Name:              cfg.Get("name"),
			AccountID:         cfg.Get("accountId"),
			Region:            cfg.Get("region"),
			Tag:               cfg.Get("applicationTag"),
			EmailRecipients:   cfg.Get("emailNotification"),
			SiteUser:          cfg.Get("siteUser"),
			BucketName:        cfg.Get("bucketName"),
			ObjectKey:         cfg.Get("objectKey"),
			SecretName:        cfg.Get("secretName"),
			ScheduleRateHours: cfg.GetInt("scheduleRateHours"),
		}

		st, err := stack.Compose(dc)
		if err != nil {
			return fmt.Errorf("compose stack: %w", err)
		}

		log.Printf("composed stack %s: function=%s topic=%s subscriptions=%d rate=%s",
			st.Identity.CanonicalName,
			st.Function.Name,
			st.Topic.Name,
			len(st.Topic.Subscriptions),
			st.Schedule.RateExpression(),
		)

		return deploy.Apply(ctx, st)
	})
}
