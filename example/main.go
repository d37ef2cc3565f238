package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/routenet"
	"github.com/meikuraledutech/routenet/internal/config"
	"github.com/meikuraledutech/routenet/internal/logger"
	"github.com/meikuraledutech/routenet/postgres"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Lines drawn around Endelave, EPSG:25832.
var candidates = map[string]string{
	"simple":            "LINESTRING(578223.64355838 6179284.23759438, 578238.4182511 6179279.78494725)",
	"ends snapped":      "LINESTRING(578241.656539916 6179263.6946997,578230.221332537 6179263.2899136,578229.715349909 6179272.70119047,578241.352950339 6179273.40956615,578241.656539916 6179263.6946997)",
	"self intersects":   "LINESTRING(578246.766964452 6179292.47246163,578228.753982917 6179292.77605121,578229.867144697 6179305.830403,578241.909531229 6179304.81843774,578239.076028516 6179286.70425968)",
	"end 0.007 to edge": "LINESTRING(578257.898582255 6179230.84377762,578248.38610886 6179230.74258109,578248.487305386 6179238.43351703,578257.79738573 6179238.3323205,578256.811707854 6179230.83918227)",
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	if cfg.Schema == "" {
		logrus.Fatal("ROUTENET_SCHEMA is not set")
	}
	log := logger.Setup(cfg)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect")
	}
	defer pool.Close()

	// Wire up the postgres implementation behind the Store interface.
	var store routenet.Store = postgres.New(pool, postgres.WithLogger(log))

	// 1. Create schema (drops any previous one of the same name)
	if err := store.CreateSchema(ctx, cfg.Schema); err != nil {
		log.WithError(err).Fatal("schema")
	}
	fmt.Printf("schema %s created\n", cfg.Schema)

	// ── Validate candidate lines ──────────────────────────────────────
	var accepted *geom.LineString
	for name, raw := range candidates {
		g, err := wkt.Unmarshal(raw)
		if err != nil {
			log.WithError(err).Fatalf("parse %s", name)
		}
		line := g.(*geom.LineString)
		res := routenet.ValidateSegment(line, cfg.Tolerance)
		fmt.Printf("%-18s %s\n", name, res.Reason)
		if res.OK() {
			accepted = line
		}
	}

	// ── Insert a node somewhere on the Endelave island ────────────────
	pt := geom.NewPointFlat(geom.XY, []float64{579886, 6179972}).SetSRID(routenet.SRID)
	nodeID, err := store.InsertNode(ctx, cfg.Schema, &routenet.RouteNode{Coord: pt})
	if err != nil {
		log.WithError(err).Fatal("insert node")
	}
	fmt.Printf("\ninserted node: %s\n", nodeID)

	if accepted != nil {
		segID, err := store.InsertSegment(ctx, cfg.Schema, &routenet.RouteSegment{Coord: accepted})
		if err != nil {
			log.WithError(err).Fatal("insert segment")
		}
		fmt.Printf("inserted segment: %s\n", segID)
	}

	// ── Read back ─────────────────────────────────────────────────────
	n, err := store.GetNode(ctx, cfg.Schema, nodeID)
	if err != nil {
		log.WithError(err).Fatal("get node")
	}
	out, err := wkt.Marshal(n.Coord)
	if err != nil {
		log.WithError(err).Fatal("encode node")
	}
	fmt.Printf("node read back: %s (within Denmark: %t)\n", out, routenet.WithinExtent(n.Coord, routenet.DenmarkExtent))
}
