package main

import (
	"fmt"
	"log"
	"os"

	"github.com/faiface/pixel/pixelgl"
	"gopkg.in/urfave/cli.v2"

	"github.com/dcpu16/emulator/asm"
	"github.com/dcpu16/emulator/dcpu"
	"github.com/dcpu16/emulator/device"
	"github.com/dcpu16/emulator/disasm"
	"github.com/dcpu16/emulator/dump"
	"github.com/dcpu16/emulator/host"
)

func main() {
	app := &cli.App{
		Name:  "dcpu",
		Usage: "assemble, run, and tool around DCPU-16 programs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cvf", Usage: "convert a 128x32 font image into DAT glyph data"},
			&cli.StringFlag{Name: "pp", Usage: "preprocess only, writing expanded source to the output arg"},
			&cli.BoolFlag{Name: "debug", Usage: "enable the debug overlay"},
			&cli.Float64Flag{Name: "scale", Value: 4, Usage: "display pixel scale"},
			&cli.BoolFlag{Name: "disasm", Usage: "disassemble the program instead of running it"},
			&cli.StringFlag{Name: "dump", Usage: "write a RAM hexdump to this path once the window closes"},
		},
		Action: func(c *cli.Context) error {
			switch {
			case c.String("cvf") != "":
				return convertFont(c.String("cvf"), c.Args().First())
			case c.String("pp") != "":
				return preprocessOnly(c.String("pp"), c.Args().First())
			case c.Bool("disasm"):
				return disassembleProgram(c.Args().First())
			default:
				return runProgram(c.Args().First(), c.Bool("debug"), c.Float64("scale"), c.String("dump"))
			}
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fileIncluder() asm.Includer {
	return asm.IncluderFunc(os.ReadFile)
}

func convertFont(imagePath, outPath string) error {
	if outPath == "" {
		return cli.Exit("usage: dcpu -cvf <image> <out.dasm>", 1)
	}
	img, err := host.LoadFontImage(imagePath)
	if err != nil {
		return cli.Exit(err, 1)
	}
	glyphs := host.ExtractGlyphs(img)

	out, err := os.Create(outPath)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer out.Close()

	for _, g := range glyphs {
		fmt.Fprintf(out, "DAT 0x%04x, 0x%04x\n", g[0], g[1])
	}
	return nil
}

func preprocessOnly(inPath, outPath string) error {
	if outPath == "" {
		return cli.Exit("usage: dcpu -pp <in> <out>", 1)
	}
	src, err := os.ReadFile(inPath)
	if err != nil {
		return cli.Exit(err, 1)
	}
	expanded, err := asm.Preprocess(src, fileIncluder())
	if err != nil {
		return cli.Exit(err, 1)
	}
	return os.WriteFile(outPath, expanded, 0644)
}

func disassembleProgram(path string) error {
	words, err := assembleFile(path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	return disasm.Disassemble(0, disasm.NewSliceReader(words), os.Stdout)
}

func assembleFile(path string) ([]uint16, error) {
	if path == "" {
		return nil, cli.Exit("usage: dcpu <program.dasm>", 1)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return asm.Assemble(src, fileIncluder())
}

func runProgram(path string, debug bool, scale float64, dumpPath string) error {
	words, err := assembleFile(path)
	if err != nil {
		return err
	}

	cpu := dcpu.New()
	cpu.Write(0, words)

	kb := device.NewKeyboard()
	lem := device.NewLEM1802()
	clock := device.NewClock()
	cpu.Connect(kb)
	cpu.Connect(lem)
	cpu.Connect(clock)

	var logger *log.Logger
	if debug {
		l, err := host.NewRunLogger("logs")
		if err != nil {
			return err
		}
		logger = l
	}

	var runErr error
	pixelgl.Run(func() {
		win, err := host.NewWindow(host.WindowConfig{Title: "DCPU-16", Scale: scale, Debug: debug})
		if err != nil {
			runErr = err
			return
		}

		atlas := host.BuildFontAtlas(func(ch byte) (uint16, uint16) { return lem.Glyph(cpu, ch) })

		const cyclesPerSecond = 100000
		cyclesPerFrame := uint64(cyclesPerSecond / 60)

		host.Run(win,
			cpu.Step,
			cyclesPerFrame,
			cpu.Cycles,
			cpu.Broken,
			cpu.UpdateDevices,
			func(code uint16) { kb.PushKey(cpu, code) },
			kb.ReleaseKey,
			func() {
				if debug {
					text := debugText(cpu)
					win.WriteDebugText(text)
					logger.Print(text)
				}
				win.Present(lem.Render(cpu), atlas, host.ColorFromWord(lem.BorderColorWord(cpu)))
			},
		)
	})
	if runErr != nil {
		return runErr
	}
	if dumpPath == "" {
		return nil
	}

	out, err := os.Create(dumpPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return dump.WriteDump(out, cpu.Memory())
}

func debugText(cpu *dcpu.CPU) string {
	regs := cpu.Snapshot()
	return fmt.Sprintf("PC: 0x%04x\nSP: 0x%04x\nEX: 0x%04x\nIA: 0x%04x\n"+
		"A: 0x%04x  B: 0x%04x  C: 0x%04x\nX: 0x%04x  Y: 0x%04x  Z: 0x%04x\n"+
		"I: 0x%04x  J: 0x%04x\nsteps: %d\nbroken: %v\n",
		cpu.PC(), cpu.SP(), cpu.EX(), cpu.IA(),
		regs.A, regs.B, regs.C, regs.X, regs.Y, regs.Z, regs.I, regs.J,
		cpu.Steps(), cpu.Broken())
}
