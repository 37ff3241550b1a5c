package macaudio

import (
	"errors"
	"time"
	"unsafe"

	avengine "github.com/shaban/audioengine/avaudio/engine"
	"github.com/shaban/audioengine/avaudio/sinknode"
	"github.com/shaban/audioengine/avaudio/sourcenode"
)

// hostDeviceGraph is the concrete DeviceGraph backed by the real
// AVAudioEngine CGO wrapper. It owns exactly the nodes the applier wires:
// one pull source feeding the main mixer, and one sink fed from the input
// node, per §4.2.
type hostDeviceGraph struct {
	engine *avengine.Engine

	sourceNode *sourcenode.SourceNode
	sourcePtr  unsafe.Pointer

	sinkNode *sinknode.SinkNode
	inputPtr unsafe.Pointer

	inputMixerMuted bool
}

func newHostDeviceGraph() *hostDeviceGraph {
	return &hostDeviceGraph{}
}

func (g *hostDeviceGraph) Create() error {
	eng, err := avengine.New(avengine.DefaultAudioSpec())
	if err != nil {
		return err
	}
	g.engine = eng
	return nil
}

func (g *hostDeviceGraph) Release() error {
	if g.engine == nil {
		return nil
	}
	g.engine.Destroy()
	g.engine = nil
	return nil
}

func (g *hostDeviceGraph) OutputHardwareFormat() (HardwareFormat, error) {
	if g.engine == nil {
		return HardwareFormat{}, errors.New("graph not created")
	}
	out, err := g.engine.OutputNode()
	if err != nil {
		return HardwareFormat{}, err
	}
	f, err := g.engine.GetNodeOutputFormat(out, 0)
	if err != nil {
		return HardwareFormat{}, err
	}
	return HardwareFormat{SampleRate: f.SampleRate(), ChannelCount: f.ChannelCount()}, nil
}

func (g *hostDeviceGraph) InputHardwareFormat() (HardwareFormat, error) {
	if g.engine == nil {
		return HardwareFormat{}, errors.New("graph not created")
	}
	in, err := g.engine.InputNode()
	if err != nil {
		return HardwareFormat{}, err
	}
	f, err := g.engine.GetNodeOutputFormat(in, 0)
	if err != nil {
		return HardwareFormat{}, err
	}
	return HardwareFormat{SampleRate: f.SampleRate(), ChannelCount: f.ChannelCount()}, nil
}

func (g *hostDeviceGraph) SetPreferredOutputDevice(uid string) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetPreferredOutputDevice(uid)
}

func (g *hostDeviceGraph) SetPreferredInputDevice(uid string) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetPreferredInputDevice(uid)
}

func (g *hostDeviceGraph) SetInputVoiceProcessingEnabled(enabled bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	in, err := g.engine.InputNode()
	if err != nil {
		return err
	}
	return g.engine.SetInputVoiceProcessingEnabled(in, enabled)
}

func (g *hostDeviceGraph) SetVoiceProcessingBypassed(bypassed bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetVoiceProcessingBypassed(bypassed)
}

func (g *hostDeviceGraph) SetVoiceProcessingAGCEnabled(enabled bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetVoiceProcessingAGCEnabled(enabled)
}

func (g *hostDeviceGraph) SetVoiceProcessingInputMuted(muted bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetVoiceProcessingInputMuted(muted)
}

func (g *hostDeviceGraph) SetAdvancedDucking(enabled bool, level int) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetAdvancedDucking(enabled, level)
}

func (g *hostDeviceGraph) ConnectOutput(format HardwareFormat, pull func(int) ([]int16, error)) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	src, err := sourcenode.NewPullSource(format.SampleRate, sourcenode.PullFunc(pull))
	if err != nil {
		return err
	}
	srcPtr, err := src.GetNodePtr()
	if err != nil {
		return err
	}
	if err := g.engine.Attach(srcPtr); err != nil {
		return err
	}
	mixer, err := g.engine.MainMixerNode()
	if err != nil {
		return err
	}
	if err := g.engine.Connect(srcPtr, mixer, 0, 0); err != nil {
		return err
	}
	g.sourceNode = src
	g.sourcePtr = srcPtr
	return nil
}

func (g *hostDeviceGraph) DisconnectOutput() error {
	if g.engine == nil || g.sourcePtr == nil {
		return nil
	}
	sourcenode.StopPullSource(g.sourcePtr)
	if err := g.engine.DisconnectNodeOutput(g.sourcePtr, 0); err != nil {
		return err
	}
	if err := g.engine.Detach(g.sourcePtr); err != nil {
		return err
	}
	g.sourceNode = nil
	g.sourcePtr = nil
	return nil
}

func (g *hostDeviceGraph) ConnectInput(format HardwareFormat, deliver func([]int16, time.Duration) error) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	sink, err := sinknode.New(format.SampleRate, format.ChannelCount, sinknode.DeliverFunc(deliver))
	if err != nil {
		return err
	}
	sinkPtr, err := sink.GetNodePtr()
	if err != nil {
		return err
	}
	if err := g.engine.Attach(sinkPtr); err != nil {
		return err
	}
	in, err := g.engine.InputNode()
	if err != nil {
		return err
	}
	if err := g.engine.Connect(in, sinkPtr, 0, 0); err != nil {
		return err
	}
	g.sinkNode = sink
	g.inputPtr = in
	return nil
}

func (g *hostDeviceGraph) DisconnectInput() error {
	if g.engine == nil || g.sinkNode == nil {
		return nil
	}
	if err := g.sinkNode.Destroy(); err != nil {
		return err
	}
	g.sinkNode = nil
	g.inputPtr = nil
	return nil
}

// SetInputMixerMuted implements MuteInputMixer by driving the input node's
// own volume through the mixer-volume control rather than VP state - the
// input node is itself attached to the engine and exposes the same
// mixer-volume surface other mixer nodes do.
func (g *hostDeviceGraph) SetInputMixerMuted(muted bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	if g.inputPtr == nil {
		in, err := g.engine.InputNode()
		if err != nil {
			return err
		}
		g.inputPtr = in
	}
	volume := float32(1.0)
	if muted {
		volume = 0.0
	}
	g.inputMixerMuted = muted
	return g.engine.SetMixerVolume(g.inputPtr, volume)
}

func (g *hostDeviceGraph) Start() error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	g.engine.Prepare()
	return g.engine.Start()
}

func (g *hostDeviceGraph) Stop() {
	if g.engine == nil {
		return
	}
	g.engine.Stop()
}

func (g *hostDeviceGraph) IsRunning() bool {
	if g.engine == nil {
		return false
	}
	return g.engine.IsRunning()
}

func (g *hostDeviceGraph) OnConfigurationChange(handler func()) {
	if g.engine == nil {
		return
	}
	g.engine.OnConfigurationChange(handler)
}
