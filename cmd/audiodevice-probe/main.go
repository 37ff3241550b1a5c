// Command audiodevice-probe is a minimal interactive harness for the audio
// device engine: it lists the available input/output devices, brings the
// engine up in device or manual rendering mode, and lets you toggle the
// knobs from a REPL while watching the observer callbacks fire.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	macaudio "github.com/shaban/audioengine"
)

var (
	flagManual  = pflag.Bool("manual", false, "start in manual rendering mode instead of device mode")
	flagVerbose = pflag.Bool("verbose", false, "enable verbose engine logging")
	flagListOnly = pflag.Bool("list", false, "list devices and exit")
)

type loggingObserver struct {
	macaudio.NoopObserver
}

func (loggingObserver) OnDevicesUpdated() {
	fmt.Println("📱 device list changed")
}

func (loggingObserver) OnEngineDidCreate() error {
	fmt.Println("🔧 engine created")
	return nil
}

func (loggingObserver) OnEngineWillStart(playout, recording bool) error {
	fmt.Printf("🚀 starting engine (playout=%v recording=%v)\n", playout, recording)
	return nil
}

func (loggingObserver) OnEngineDidStop(playout, recording bool) error {
	fmt.Println("🛑 engine stopped")
	return nil
}

// silentBuffer is a PCMBuffer that discards everything - this probe doesn't
// ship real audio, it just exercises the state machine and device wiring.
type silentBuffer struct{}

func (silentBuffer) SetPlayoutFormat(int, int) error   { return nil }
func (silentBuffer) SetRecordingFormat(int, int) error { return nil }
func (silentBuffer) ResetPlayout() error               { return nil }
func (silentBuffer) ResetRecording() error             { return nil }
func (silentBuffer) StartPlayout() error               { return nil }
func (silentBuffer) StopPlayout() error                { return nil }
func (silentBuffer) IsPlaying() bool                   { return false }
func (silentBuffer) StartRecording() error             { return nil }
func (silentBuffer) StopRecording() error              { return nil }
func (silentBuffer) IsRecording() bool                 { return false }
func (silentBuffer) GetPlayoutData(frames int) ([]int16, error) {
	return make([]int16, frames), nil
}
func (silentBuffer) DeliverRecordedData([]int16, time.Duration) error { return nil }

func main() {
	pflag.Parse()

	fmt.Println("🎧 Audio Device Probe")
	fmt.Println("=====================")

	eng := macaudio.NewEngine(silentBuffer{}, loggingObserver{})
	eng.SetVerboseLogging(*flagVerbose)
	if err := eng.Init(); err != nil {
		fmt.Printf("❌ failed to init engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Terminate()

	outputs, err := eng.ListOutputDevices()
	if err != nil {
		fmt.Printf("❌ failed to list output devices: %v\n", err)
		os.Exit(1)
	}
	inputs, err := eng.ListInputDevices()
	if err != nil {
		fmt.Printf("❌ failed to list input devices: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n🔊 Output devices:")
	for i, d := range outputs {
		printDevice(i, d)
	}
	fmt.Println("\n🎤 Input devices:")
	for i, d := range inputs {
		printDevice(i, d)
	}

	if *flagListOnly {
		return
	}

	if *flagManual {
		if err := eng.SetManualRenderingMode(true); err != nil {
			fmt.Printf("❌ failed to switch to manual rendering mode: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n✅ manual rendering mode selected")
	}

	repl(eng)
}

func printDevice(i int, d macaudio.DeviceDescriptor) {
	defaultMark := ""
	if d.IsDefault {
		defaultMark = " [default]"
	}
	fmt.Printf("  %d. %s (%s)%s\n", i, d.Name, d.UID, defaultMark)
}

func repl(eng *macaudio.Engine) {
	fmt.Println("\n🎛️  Commands:")
	fmt.Println("  play on|off     - enable/disable output")
	fmt.Println("  rec on|off      - enable/disable input")
	fmt.Println("  mute on|off     - mute/unmute the microphone")
	fmt.Println("  vp on|off       - enable/disable voice processing")
	fmt.Println("  status          - print the committed engine state")
	fmt.Println("  quit            - exit")
	fmt.Println("")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("probe> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "quit", "exit", "q":
			return

		case "play":
			if err := eng.SetOutputEnabled(parseOnOff(parts)); err != nil {
				fmt.Printf("❌ %v\n", err)
				continue
			}
			if err := eng.SetOutputRunning(parseOnOff(parts)); err != nil {
				fmt.Printf("❌ %v\n", err)
			}

		case "rec":
			if err := eng.SetInputEnabled(parseOnOff(parts)); err != nil {
				fmt.Printf("❌ %v\n", err)
				continue
			}
			if err := eng.SetInputRunning(parseOnOff(parts)); err != nil {
				fmt.Printf("❌ %v\n", err)
			}

		case "mute":
			if err := eng.SetMicrophoneMute(parseOnOff(parts)); err != nil {
				fmt.Printf("❌ %v\n", err)
			}

		case "vp":
			if err := eng.SetVoiceProcessingEnabled(parseOnOff(parts)); err != nil {
				fmt.Printf("❌ %v\n", err)
			}

		case "status":
			printStatus(eng)

		default:
			fmt.Printf("unknown command %q\n", parts[0])
		}
	}
}

func parseOnOff(parts []string) bool {
	if len(parts) < 2 {
		return false
	}
	v, _ := strconv.ParseBool(strings.ToLower(parts[1]))
	return v || parts[1] == "on"
}

func printStatus(eng *macaudio.Engine) {
	s := eng.GetEngineState()
	fmt.Printf("  render_mode=%s mute_mode=%s\n", s.RenderMode, s.MuteMode)
	fmt.Printf("  output_enabled=%v output_running=%v\n", eng.GetOutputEnabled(), eng.GetOutputRunning())
	fmt.Printf("  input_enabled=%v input_running=%v input_muted=%v\n", eng.GetInputEnabled(), eng.GetInputRunning(), s.InputMuted)
	fmt.Printf("  voice_processing_enabled=%v\n", eng.GetVoiceProcessingEnabled())
}
