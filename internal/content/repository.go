// Package content serves the job, company and question data a screening
// conversation runs against.
package content

import (
	"context"
	"fmt"
	"sort"

	"github.com/spigell/hh-screener/internal/screening"
)

// Repository looks up screening content. Missing entries are reported with
// an error wrapping screening.ErrRepositoryMiss; different content is never
// substituted.
type Repository interface {
	Job(ctx context.Context, id string) (*screening.JobProfile, error)
	Company(ctx context.Context, id string) (*screening.CompanyFacts, error)
	// Questions returns the job's questions in the same order on every call.
	Questions(ctx context.Context, jobID string) ([]screening.Question, error)
}

// Catalog is an immutable in-memory Repository.
type Catalog struct {
	companies map[string]screening.CompanyFacts
	jobs      map[string]screening.JobProfile
}

// NewCatalog validates the content and builds a catalog from it.
func NewCatalog(companies []screening.CompanyFacts, jobs []screening.JobProfile) (*Catalog, error) {
	c := &Catalog{
		companies: make(map[string]screening.CompanyFacts, len(companies)),
		jobs:      make(map[string]screening.JobProfile, len(jobs)),
	}

	for i := range companies {
		company := companies[i]
		if err := company.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.companies[company.ID]; ok {
			return nil, &screening.ValidationError{Entity: "catalog", Problems: []string{fmt.Sprintf("duplicate company %q", company.ID)}}
		}
		company.Benefits = append([]string(nil), company.Benefits...)
		c.companies[company.ID] = company
	}

	for i := range jobs {
		job := jobs[i]
		if err := job.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.jobs[job.ID]; ok {
			return nil, &screening.ValidationError{Entity: "catalog", Problems: []string{fmt.Sprintf("duplicate job %q", job.ID)}}
		}
		if job.CompanyID != "" {
			if _, ok := c.companies[job.CompanyID]; !ok {
				return nil, &screening.ValidationError{
					Entity:   "job " + job.ID,
					Problems: []string{fmt.Sprintf("unknown company %q", job.CompanyID)},
				}
			}
		}
		c.jobs[job.ID] = cloneJob(job)
	}

	return c, nil
}

func (c *Catalog) Job(_ context.Context, id string) (*screening.JobProfile, error) {
	job, ok := c.jobs[id]
	if !ok {
		return nil, &screening.RepositoryMissError{Kind: "job", ID: id}
	}
	out := cloneJob(job)
	return &out, nil
}

func (c *Catalog) Company(_ context.Context, id string) (*screening.CompanyFacts, error) {
	company, ok := c.companies[id]
	if !ok {
		return nil, &screening.RepositoryMissError{Kind: "company", ID: id}
	}
	company.Benefits = append([]string(nil), company.Benefits...)
	return &company, nil
}

func (c *Catalog) Questions(ctx context.Context, jobID string) ([]screening.Question, error) {
	job, err := c.Job(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return job.Questions, nil
}

// Jobs lists every job sorted by id.
func (c *Catalog) Jobs() []screening.JobProfile {
	out := make([]screening.JobProfile, 0, len(c.jobs))
	for _, job := range c.jobs {
		out = append(out, cloneJob(job))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneJob(job screening.JobProfile) screening.JobProfile {
	job.Requirements = append([]string(nil), job.Requirements...)
	job.NiceToHave = append([]string(nil), job.NiceToHave...)
	questions := make([]screening.Question, len(job.Questions))
	for i, q := range job.Questions {
		q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
		questions[i] = q
	}
	job.Questions = questions
	return job
}
