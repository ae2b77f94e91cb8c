// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jobfile

import (
	"time"

	"github.com/bureau-foundation/paramcron/lib/cron"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

// Compiled is a job with its parsed schedule.
type Compiled struct {
	Job  Job
	List *schedule.List
}

// Compile parses every job's schedule. The file's timezone applies to
// schedules without a "TZ=" line, unless an option overrides it. It
// stops at the first job that fails.
func (f *File) Compile(options ...schedule.Option) ([]Compiled, error) {
	if f.Timezone != "" {
		location, err := cron.LoadTimezone(f.Timezone)
		if err != nil {
			return nil, err
		}
		options = append([]schedule.Option{schedule.WithLocation(location)}, options...)
	}

	compiled := make([]Compiled, 0, len(f.Jobs))
	for _, job := range f.Jobs {
		list, err := job.Compile(options...)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, Compiled{Job: job, List: list})
	}
	return compiled, nil
}

// Match returns the fire records of every job at t: jobs in order,
// and within a job its matching entries in declaration order.
func Match(jobs []Compiled, t time.Time) []schedule.Fire {
	var fires []schedule.Fire
	for _, job := range jobs {
		fires = append(fires, job.List.Fires(job.Job.Name, t)...)
	}
	return fires
}

// Upcoming is the next firing of a job.
type Upcoming struct {
	Time  time.Time
	Fires []schedule.Fire
}

// Next returns the next count firing minutes of a compiled job
// strictly after t. It returns fewer when the schedule runs out.
func Next(job Compiled, t time.Time, count int) []Upcoming {
	var upcoming []Upcoming
	for len(upcoming) < count {
		at, matchers, err := job.List.Next(t)
		if err != nil {
			break
		}
		fires := make([]schedule.Fire, 0, len(matchers))
		for _, matcher := range matchers {
			fires = append(fires, schedule.NewFire(job.Job.Name, matcher, at))
		}
		upcoming = append(upcoming, Upcoming{Time: at, Fires: fires})
		t = at
	}
	return upcoming
}
