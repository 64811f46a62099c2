package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rpgo/actuarial-calculator/internal/cache"
	"github.com/rpgo/actuarial-calculator/internal/calculation"
	"github.com/rpgo/actuarial-calculator/internal/domain"
	"github.com/rpgo/actuarial-calculator/pkg/dateutil"
)

const cacheHeader = "X-Cache"

type errorResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// BondYieldRequest pairs a bond with the market price to solve the yield from
type BondYieldRequest struct {
	Bond        domain.BondSpec `json:"bond"`
	MarketPrice float64         `json:"market_price"`
}

// Health reports liveness
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// ListTargets lists the supported sensitivity sweep targets
func (s *Server) ListTargets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"targets": domain.SensitivityTargets()})
}

// TVM solves a time-value-of-money problem
func (s *Server) TVM(c *gin.Context) {
	var req domain.TVMRequest
	if !bind(c, &req) {
		return
	}
	s.evaluate(c, domain.Calculation{Name: "tvm", Type: domain.CalcTVM, TVM: &req})
}

// Annuity values an annuity
func (s *Server) Annuity(c *gin.Context) {
	var req domain.AnnuityRequest
	if !bind(c, &req) {
		return
	}
	s.evaluate(c, domain.Calculation{Name: "annuity", Type: domain.CalcAnnuity, Annuity: &req})
}

// Bond prices a bond at its yield to maturity
func (s *Server) Bond(c *gin.Context) {
	var spec domain.BondSpec
	if !bind(c, &spec) {
		return
	}
	s.evaluate(c, domain.Calculation{Name: "bond", Type: domain.CalcBond, Bond: &spec})
}

// BondYield solves the yield that reproduces a market price
func (s *Server) BondYield(c *gin.Context) {
	var req BondYieldRequest
	if !bind(c, &req) {
		return
	}
	if req.MarketPrice <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("market price must be positive"))
		return
	}
	s.evaluate(c, domain.Calculation{Name: "bond_yield", Type: domain.CalcBond, Bond: &req.Bond, MarketPrice: req.MarketPrice})
}

// Loan builds an amortization schedule, with a payoff comparison when an extra payment is given
func (s *Server) Loan(c *gin.Context) {
	var req domain.LoanRequest
	if !bind(c, &req) {
		return
	}
	s.evaluate(c, domain.Calculation{Name: "loan", Type: domain.CalcLoan, Loan: &req})
}

// Retirement projects savings to retirement
func (s *Server) Retirement(c *gin.Context) {
	var req domain.RetirementRequest
	if !bind(c, &req) {
		return
	}
	s.evaluate(c, domain.Calculation{Name: "retirement", Type: domain.CalcRetirement, Retirement: &req})
}

// Sensitivity runs a parameter sweep
func (s *Server) Sensitivity(c *gin.Context) {
	var req domain.SensitivityRequest
	if !bind(c, &req) {
		return
	}
	s.evaluate(c, domain.Calculation{Name: "sensitivity", Type: domain.CalcSensitivity, Sensitivity: &req})
}

// Batch runs a whole configuration; failing entries carry their error in the result
func (s *Server) Batch(c *gin.Context) {
	var cfg domain.Configuration
	if !bind(c, &cfg) {
		return
	}
	if err := s.parser.ValidateConfiguration(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	batch, err := s.engine.RunBatch(c.Request.Context(), &cfg)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, errorBody(err.Error()))
		return
	}
	c.JSON(http.StatusOK, batch)
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(fmt.Sprintf("invalid request body: %v", err)))
		return false
	}
	return true
}

// evaluate validates a single calculation, serves it from cache when possible and
// otherwise runs it through the engine.
func (s *Server) evaluate(c *gin.Context, calc domain.Calculation) {
	pinAge(&calc, s.now())
	if err := s.parser.ValidateCalculation(&calc); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ctx := c.Request.Context()
	key := ""
	if s.cache != nil {
		// normalized after validation so aliases share an entry
		payload, err := json.Marshal(calc)
		if err == nil {
			key = cache.Key(string(calc.Type), payload)
			if body, ok, err := s.cache.Get(ctx, key); err != nil {
				s.logger.Warnf("cache lookup failed: %v", err)
			} else if ok {
				c.Header(cacheHeader, "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", body)
				return
			}
		}
	}

	result, err := s.engine.Run(ctx, calc)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), errorBody(err.Error()))
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody("failed to encode result"))
		return
	}
	if key != "" {
		if err := s.cache.Set(ctx, key, body); err != nil {
			s.logger.Warnf("cache store failed: %v", err)
		}
		c.Header(cacheHeader, "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// pinAge replaces an age derived from a birth date with the age at now, so
// the cache key changes on a birthday
func pinAge(calc *domain.Calculation, now time.Time) {
	pin := func(r *domain.RetirementRequest) *domain.RetirementRequest {
		if r == nil || r.CurrentAge != 0 || r.BirthDate == nil {
			return r
		}
		pinned := *r
		pinned.CurrentAge = dateutil.Age(*r.BirthDate, now)
		return &pinned
	}
	calc.Retirement = pin(calc.Retirement)
	if calc.Sensitivity != nil && calc.Sensitivity.Retirement != nil {
		sens := *calc.Sensitivity
		sens.Retirement = pin(sens.Retirement)
		calc.Sensitivity = &sens
	}
}

// statusFor maps calculation errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, calculation.ErrDomain), errors.Is(err, calculation.ErrNonConvergent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
