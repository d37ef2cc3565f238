package main

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/routenet"
	"github.com/meikuraledutech/routenet/internal/config"
	"github.com/meikuraledutech/routenet/internal/logger"
	"github.com/meikuraledutech/routenet/internal/metrics"
	"github.com/meikuraledutech/routenet/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// entityRequest is the body of node and segment inserts.
// Geometry is GeoJSON in EPSG:25832.
type entityRequest struct {
	MRID            uuid.UUID       `json:"mrid"`
	WorkTaskMRID    uuid.UUID       `json:"work_task_mrid"`
	UserName        string          `json:"user_name"`
	ApplicationName string          `json:"application_name"`
	Geometry        json.RawMessage `json:"geometry"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.Setup(cfg)

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect")
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		log.WithError(err).Fatal("metrics")
	}

	var store routenet.Store = postgres.New(pool, postgres.WithLogger(log))

	app := fiber.New()

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schemas/:name", func(c fiber.Ctx) error {
		err := store.CreateSchema(c.Context(), c.Params("name"))
		m.ObserveStore("create_schema", err)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schemas/:name", func(c fiber.Ctx) error {
		err := store.DropSchema(c.Context(), c.Params("name"))
		m.ObserveStore("drop_schema", err)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.SendStatus(204)
	})

	// ── Validation ────────────────────────────────────────────────────
	app.Post("/validate", func(c fiber.Ctx) error {
		line, err := parseLineString(c.Body())
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid geometry: " + err.Error()})
		}
		tol, err := tolerance(c, cfg.Tolerance)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid tolerance"})
		}
		res := routenet.ValidateSegment(line, tol)
		m.ObserveValidation(res)
		return c.JSON(fiber.Map{"valid": res.OK(), "reason": res.Reason.String()})
	})

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/schemas/:name/nodes", func(c fiber.Ctx) error {
		var req entityRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		pt, err := parsePoint(req.Geometry)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid geometry: " + err.Error()})
		}
		id, err := store.InsertNode(c.Context(), c.Params("name"), &routenet.RouteNode{
			MRID:            req.MRID,
			Coord:           pt,
			WorkTaskMRID:    req.WorkTaskMRID,
			UserName:        req.UserName,
			ApplicationName: req.ApplicationName,
		})
		m.ObserveStore("insert_node", err)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"mrid": id})
	})

	app.Get("/schemas/:name/nodes/:id", func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid mrid"})
		}
		n, err := store.GetNode(c.Context(), c.Params("name"), id)
		m.ObserveStore("get_node", err)
		if err != nil {
			return errorResponse(c, err)
		}
		if n == nil {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		return entityResponse(c, n.MRID, n.WorkTaskMRID, n.UserName, n.ApplicationName, n.Coord)
	})

	// ── Segments ──────────────────────────────────────────────────────
	app.Post("/schemas/:name/segments", func(c fiber.Ctx) error {
		var req entityRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		line, err := parseLineString(req.Geometry)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid geometry: " + err.Error()})
		}
		res := routenet.ValidateSegment(line, cfg.Tolerance)
		m.ObserveValidation(res)
		if !res.OK() {
			return errorResponse(c, res.Err())
		}
		id, err := store.InsertSegment(c.Context(), c.Params("name"), &routenet.RouteSegment{
			MRID:            req.MRID,
			Coord:           line,
			WorkTaskMRID:    req.WorkTaskMRID,
			UserName:        req.UserName,
			ApplicationName: req.ApplicationName,
		})
		m.ObserveStore("insert_segment", err)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"mrid": id})
	})

	app.Get("/schemas/:name/segments/:id", func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid mrid"})
		}
		seg, err := store.GetSegment(c.Context(), c.Params("name"), id)
		m.ObserveStore("get_segment", err)
		if err != nil {
			return errorResponse(c, err)
		}
		if seg == nil {
			return c.Status(404).JSON(fiber.Map{"error": "segment not found"})
		}
		return entityResponse(c, seg.MRID, seg.WorkTaskMRID, seg.UserName, seg.ApplicationName, seg.Coord)
	})

	log.WithField("addr", cfg.ServerAddr).Info("route network server listening")
	log.Fatal(app.Listen(cfg.ServerAddr))
}

// errorResponse maps routenet sentinels onto HTTP status codes.
func errorResponse(c fiber.Ctx, err error) error {
	var verr *routenet.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(422).JSON(fiber.Map{"error": err.Error(), "reason": verr.Reason.String()})
	case errors.Is(err, routenet.ErrValidation):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, routenet.ErrConstraintViolation):
		return c.Status(409).JSON(fiber.Map{"error": "mrid already exists"})
	case errors.Is(err, routenet.ErrSchemaState):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, routenet.ErrConnection):
		return c.Status(503).JSON(fiber.Map{"error": "store unavailable"})
	default:
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}

func entityResponse(c fiber.Ctx, mrid, workTask uuid.UUID, user, app string, g geom.T) error {
	gj, err := geojson.Marshal(g)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"mrid":             mrid,
		"work_task_mrid":   workTask,
		"user_name":        user,
		"application_name": app,
		"geometry":         json.RawMessage(gj),
	})
}

func tolerance(c fiber.Ctx, def float64) (float64, error) {
	v := c.Query("tolerance")
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parsePoint(raw []byte) (*geom.Point, error) {
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, errors.New("expected a Point")
	}
	return p.SetSRID(routenet.SRID), nil
}

func parseLineString(raw []byte) (*geom.LineString, error) {
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, errors.New("expected a LineString")
	}
	return ls.SetSRID(routenet.SRID), nil
}
