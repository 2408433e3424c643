// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command meshbatch packs a scene of generated meshes into batch pairs
// and reports how the pairs are used. It is a smoke test for a config
// file and, with -gpu, for the WebGPU mirror on this machine.
package main

import (
	"fmt"
	"os"

	"cogentcore.org/meshbatch/base/errors"
	"cogentcore.org/meshbatch/base/logx"
	"cogentcore.org/meshbatch/batch"
	"cogentcore.org/meshbatch/gpu"
	"cogentcore.org/meshbatch/math32"
	"cogentcore.org/meshbatch/shape"
	"cogentcore.org/meshbatch/xyz"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "batch config file (.toml, .yaml or .yml)",
	}
	gpuFlag = &cli.BoolFlag{
		Name:  "gpu",
		Usage: "mirror the pairs on a WebGPU device instead of host memory",
	}
	meshesFlag = &cli.IntFlag{
		Name:  "meshes",
		Usage: "number of meshes in the scene",
		Value: 100,
	}
	churnFlag = &cli.IntFlag{
		Name:  "churn",
		Usage: "number of rounds of replacing and deleting meshes",
		Value: 3,
	}
	veryVerboseFlag = &cli.BoolFlag{Name: "vv", Usage: "very verbose (debug) logging"}
	verboseFlag     = &cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "verbose (info) logging"}
	quietFlag       = &cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"}
)

func main() {
	app := &cli.App{
		Name:  "meshbatch",
		Usage: "pack generated meshes into batch buffer pairs",
		Flags: []cli.Flag{configFlag, gpuFlag, meshesFlag, churnFlag, veryVerboseFlag, verboseFlag, quietFlag},
		Before: func(ctx *cli.Context) error {
			if ctx.IsSet(veryVerboseFlag.Name) || ctx.IsSet(verboseFlag.Name) || ctx.IsSet(quietFlag.Name) {
				logx.UserLevel = logx.LevelFromFlags(ctx.Bool(veryVerboseFlag.Name), ctx.Bool(verboseFlag.Name), ctx.Bool(quietFlag.Name))
			}
			logx.InitColor()
			logx.SetDefaultLogger()
			return nil
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg := batch.DefaultConfig()
	if fn := ctx.String(configFlag.Name); fn != "" {
		var err error
		cfg, err = batch.OpenConfig(fn)
		if err != nil {
			return err
		}
	}

	var dev batch.Device
	if ctx.Bool(gpuFlag.Name) {
		gd, err := gpu.NewDevice()
		if err != nil {
			return err
		}
		defer gd.Release()
		dev = gd
	}
	bm, err := batch.NewMeshManager(cfg, dev)
	if err != nil {
		return err
	}
	defer bm.Release()

	lib := xyz.NewLibrary("scene", bm)
	n := ctx.Int(meshesFlag.Name)
	for i := range n {
		errors.Log1(lib.SetMesh(meshName(i), sceneShape(i, 0)))
	}
	for round := 1; round <= ctx.Int(churnFlag.Name); round++ {
		for i := round % 2; i < n; i += 2 {
			errors.Log1(lib.SetMesh(meshName(i), sceneShape(i, round)))
		}
		for i := round; i < n; i += 7 {
			lib.DeleteMesh(meshName(i))
		}
	}
	if err := bm.Sync(); err != nil {
		return err
	}

	logx.PrintlnInfo(bm.Stats().String())
	draws := lib.Draws()
	logx.PrintlnInfo(fmt.Sprintf("%d meshes, %d draws in %d pairs", len(lib.MeshList()), len(draws), bm.NumBatches()))
	bm.PrintStats()
	return nil
}

func meshName(i int) string {
	return fmt.Sprintf("mesh_%d", i)
}

// sceneShape returns a shape for mesh i that varies in size with round.
func sceneShape(i, round int) shape.Shape {
	segs := 1 + (i+round)%8
	if i%3 == 0 {
		pl := shape.NewPlane(math32.Dims((i/3)%3), float32(segs), float32(segs))
		pl.Segs = [2]int{segs, segs}
		return pl
	}
	bx := shape.NewBox(1, float32(segs), 1)
	bx.Segs = [3]int{1, segs, 1}
	bx.Pos = math32.Vec3(float32(i), 0, 0)
	if i%5 == 0 {
		return shape.NewGroup(bx, shape.NewPlane(math32.Y, 2, 2))
	}
	return bx
}
