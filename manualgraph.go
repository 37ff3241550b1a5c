package macaudio

import (
	"errors"
	"time"
	"unsafe"

	avengine "github.com/shaban/audioengine/avaudio/engine"
	"github.com/shaban/audioengine/avaudio/sinknode"
	"github.com/shaban/audioengine/avaudio/sourcenode"
	"github.com/shaban/audioengine/config"
)

// hostManualGraph is the concrete ManualGraph backed by the real engine's
// manual rendering mode (§4.3): no device binding, fixed Int16/48kHz/mono
// format, driven entirely by repeated Render calls from the render loop.
type hostManualGraph struct {
	engine *avengine.Engine

	sourceNode *sourcenode.SourceNode
	sourcePtr  unsafe.Pointer

	sinkNode *sinknode.SinkNode
}

func newHostManualGraph() *hostManualGraph {
	return &hostManualGraph{}
}

func (g *hostManualGraph) Create(sampleRate float64, channelCount, maxFrameCount int) error {
	eng, err := avengine.New(avengine.AudioSpec{
		SampleRate:   sampleRate,
		BufferSize:   maxFrameCount,
		BitDepth:     16,
		ChannelCount: channelCount,
	})
	if err != nil {
		return err
	}
	if err := eng.EnableManualRenderingMode(sampleRate, channelCount, maxFrameCount); err != nil {
		eng.Destroy()
		return err
	}
	g.engine = eng
	return nil
}

func (g *hostManualGraph) Release() error {
	if g.engine == nil {
		return nil
	}
	g.engine.Destroy()
	g.engine = nil
	return nil
}

func (g *hostManualGraph) ConnectOutput(pull func(int) ([]int16, error)) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	src, err := sourcenode.NewPullSource(float64(config.ManualSampleRate), sourcenode.PullFunc(pull))
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

func (g *hostManualGraph) DisconnectOutput() error {
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

func (g *hostManualGraph) ConnectInput(deliver func([]int16, int64) error) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	wrapped := func(samples []int16, capturedAt time.Duration) error {
		return deliver(samples, int64(capturedAt))
	}
	sink, err := sinknode.New(float64(config.ManualSampleRate), config.ManualChannelCount, sinknode.DeliverFunc(wrapped))
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
	return nil
}

func (g *hostManualGraph) DisconnectInput() error {
	if g.engine == nil || g.sinkNode == nil {
		return nil
	}
	if err := g.sinkNode.Destroy(); err != nil {
		return err
	}
	g.sinkNode = nil
	return nil
}

func (g *hostManualGraph) SetInputVoiceProcessingEnabled(enabled bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	in, err := g.engine.InputNode()
	if err != nil {
		return err
	}
	return g.engine.SetInputVoiceProcessingEnabled(in, enabled)
}

func (g *hostManualGraph) SetVoiceProcessingInputMuted(muted bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	return g.engine.SetVoiceProcessingInputMuted(muted)
}

func (g *hostManualGraph) SetInputMixerMuted(muted bool) error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	in, err := g.engine.InputNode()
	if err != nil {
		return err
	}
	volume := float32(1.0)
	if muted {
		volume = 0.0
	}
	return g.engine.SetMixerVolume(in, volume)
}

func (g *hostManualGraph) Start() error {
	if g.engine == nil {
		return errors.New("graph not created")
	}
	g.engine.Prepare()
	return g.engine.Start()
}

func (g *hostManualGraph) Stop() {
	if g.engine == nil {
		return
	}
	g.engine.Stop()
}

func (g *hostManualGraph) IsRunning() bool {
	if g.engine == nil {
		return false
	}
	return g.engine.IsRunning()
}

func (g *hostManualGraph) Render(frameCount int) (int, error) {
	if g.engine == nil {
		return 0, errors.New("graph not created")
	}
	return g.engine.RenderManual(frameCount)
}
