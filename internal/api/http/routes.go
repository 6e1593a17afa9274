package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/harborline/voyage-weather/internal/store"
	"github.com/harborline/voyage-weather/internal/voyage"
	"github.com/harborline/voyage-weather/internal/weather"
)

var validate = validator.New()

// Deps bundles what the HTTP handlers need.
type Deps struct {
	Service    *weather.Service
	Snapshots  *store.MemoryStore
	Thresholds voyage.Thresholds
	ReportDir  string
	CSVPath    string
	Log        *logrus.Logger
	WriteFiles func(voyage.Assessment) error // nil disables report output
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		pos, err := parsePosition(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		when, err := resolveWhen(c.Query("when", "now"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := deps.Service.Fetch(c.UserContext(), pos.Lat, pos.Lon, when)
		if err != nil {
			var fallback *weather.FallbackError
			if errors.As(err, &fallback) {
				return fiber.NewError(fiber.StatusBadGateway, fallback.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}
		return c.JSON(snapshot)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		pos, err := parsePosition(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, to, err := parseTimeRange(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := deps.Snapshots.Range(pos.Lat, pos.Lon, from, to)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}
		return c.JSON(fiber.Map{
			"position":  pos,
			"from":      from,
			"to":        to,
			"snapshots": snapshots,
		})
	})

	v1.Post("/voyage/plan", func(c *fiber.Ctx) error {
		var req voyagePlanRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		when := req.Departure.UTC().Format(time.RFC3339)
		snapshot, err := deps.Service.Fetch(c.UserContext(), req.Lat, req.Lon, when)
		if err != nil {
			var fallback *weather.FallbackError
			if errors.As(err, &fallback) {
				return fiber.NewError(fiber.StatusBadGateway, fallback.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		departure := voyage.SelectDeparture(snapshot, req.Departure.UTC())
		assessment := voyage.Assess(req.toPlan(), req.toVessel(deps.Thresholds), departure)

		if deps.WriteFiles != nil {
			if err := deps.WriteFiles(assessment); err != nil {
				deps.Log.WithField("error", err).Warn("failed to write voyage report")
			}
		}
		return c.JSON(assessment)
	})
}

// position holds validated query coordinates.
type position struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func parsePosition(c *fiber.Ctx) (position, error) {
	var pos position

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return pos, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return pos, fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return pos, fmt.Errorf("invalid lon: %w", err)
	}

	pos.Lat = lat
	pos.Lon = lon
	if err := validate.Struct(pos); err != nil {
		return pos, err
	}
	return pos, nil
}

func parseTimeRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not precede from")
	}
	return from, to, nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

// resolveWhen turns the when parameter into an RFC3339 instant: "now",
// "+<hours>" relative to now, or an RFC3339 timestamp passed through.
func resolveWhen(arg string) (string, error) {
	base := time.Now().UTC().Truncate(time.Second)
	switch {
	case arg == "now":
		return base.Format(time.RFC3339), nil
	case strings.HasPrefix(arg, "+"):
		hours, err := strconv.Atoi(arg[1:])
		if err != nil {
			return "", fmt.Errorf("invalid relative when %q", arg)
		}
		return base.Add(time.Duration(hours) * time.Hour).Format(time.RFC3339), nil
	default:
		if _, err := time.Parse(time.RFC3339, arg); err != nil {
			return "", fmt.Errorf("invalid when: %w", err)
		}
		return arg, nil
	}
}

// voyagePlanRequest is the body of POST /voyage/plan.
type voyagePlanRequest struct {
	Origin            string    `json:"origin" validate:"required"`
	Destination       string    `json:"destination" validate:"required"`
	Departure         time.Time `json:"departure" validate:"required"`
	DistanceNM        float64   `json:"distance_nm" validate:"required,gt=0"`
	Lat               float64   `json:"lat" validate:"gte=-90,lte=90"`
	Lon               float64   `json:"lon" validate:"gte=-180,lte=180"`
	VesselName        string    `json:"vessel_name"`
	ServiceSpeedKnots float64   `json:"service_speed_knots" validate:"gte=0"`
}

func (r voyagePlanRequest) toPlan() voyage.Plan {
	return voyage.Plan{
		Origin:           r.Origin,
		Destination:      r.Destination,
		PlannedDeparture: r.Departure.UTC(),
		DistanceNM:       r.DistanceNM,
	}
}

func (r voyagePlanRequest) toVessel(caps voyage.Thresholds) voyage.VesselProfile {
	name := r.VesselName
	if name == "" {
		name = "Default Vessel"
	}
	speed := r.ServiceSpeedKnots
	if speed == 0 {
		speed = 18.0
	}
	return voyage.VesselProfile{
		Name:              name,
		ServiceSpeedKnots: speed,
		WeatherCaps:       caps,
	}
}
