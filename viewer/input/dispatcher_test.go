package input_test

import (
	"bytes"
	"errors"
	"testing"

	"csgview/viewer/input"
	"csgview/viewer/input/inputtest"
	"csgview/viewer/kernel"
)

// drive performs one live action per event through the dispatcher's Listener methods.
func drive(d *input.Dispatcher, l input.Log) {
	for _, ev := range l {
		input.Deliver(d, ev, input.WheelVertical)
	}
}

func newRig() (*kernel.Kernel, *input.Dispatcher, *inputtest.Tape) {
	k := kernel.New()
	d := input.NewDispatcher(nil)
	tape := &inputtest.Tape{}
	d.AddListener(tape)
	k.AddTask(d)
	return k, d, tape
}

// runPlayback steps the kernel until playback finishes or the step limit is hit.
func runPlayback(t *testing.T, k *kernel.Kernel, d *input.Dispatcher, limit int) int {
	t.Helper()
	finished := false
	if err := d.Play(func() { finished = true }); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	steps := 0
	for !finished {
		if steps >= limit {
			t.Fatalf("playback not finished after %d steps", limit)
		}
		k.Step()
		steps++
	}
	return steps
}

var sample = input.Log{
	{Kind: input.KindMove, A: 10, B: 20},
	{Kind: input.KindPointerDownPrimary},
	{Kind: input.KindMove, A: 15, B: 22},
	{Kind: input.KindPointerUpPrimary},
	{Kind: input.KindScroll, A: -120, B: 120},
	{Kind: input.KindPointerDownSecondary},
	{Kind: input.KindMove, A: 0, B: -4},
	{Kind: input.KindPointerUpSecondary},
	{Kind: input.KindDoubleClick},
}

func TestRecordThenReplayIsFaithful(t *testing.T) {
	k, d, tape := newRig()

	if err := d.ArmRecording(); err != nil {
		t.Fatalf("ArmRecording() error = %v", err)
	}
	drive(d, sample)
	log := d.DisarmRecording()

	if !tape.Events.Equal(sample) {
		t.Fatalf("live forwarding while recording = %v, want %v", tape.Events, sample)
	}
	if !log.Equal(sample) {
		t.Fatalf("recorded log = %v, want %v", log, sample)
	}

	var buf bytes.Buffer
	if err := input.Encode(&buf, log); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := input.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := d.Load(decoded); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tape.Reset()
	runPlayback(t, k, d, 100)
	if !tape.Events.Equal(sample) {
		t.Fatalf("replayed = %v, want %v", tape.Events, sample)
	}
	if d.Mode() != input.ModeIdle {
		t.Fatalf("Mode() after playback = %s, want idle", d.Mode())
	}
}

func TestPlaybackDispatchesOneEventPerStep(t *testing.T) {
	k, d, tape := newRig()
	if err := d.Load(sample); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := d.Play(nil); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	for i := 1; i <= len(sample); i++ {
		k.Step()
		if len(tape.Events) != i {
			t.Fatalf("after step %d dispatched = %d, want %d", i, len(tape.Events), i)
		}
	}
	if d.Mode() != input.ModePlaying {
		t.Fatalf("Mode() before final step = %s, want playing", d.Mode())
	}
	k.Step()
	if d.Mode() != input.ModeIdle {
		t.Fatalf("Mode() after final step = %s, want idle", d.Mode())
	}
}

func TestPlaybackInterleavesPostedWork(t *testing.T) {
	k, d, tape := newRig()
	if err := d.Load(sample[:3]); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var seen []int
	if err := d.Play(nil); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		k.Post(func() { seen = append(seen, len(tape.Events)) })
		k.Step()
	}
	want := []int{0, 1, 2}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("posted work saw %v dispatched events, want %v", seen, want)
		}
	}
}

func TestEmptyRecordingReplaysNothing(t *testing.T) {
	k, d, tape := newRig()
	if err := d.ArmRecording(); err != nil {
		t.Fatalf("ArmRecording() error = %v", err)
	}
	log := d.DisarmRecording()
	if len(log) != 0 {
		t.Fatalf("len(log) = %d, want 0", len(log))
	}
	steps := runPlayback(t, k, d, 10)
	if steps != 1 {
		t.Fatalf("steps to finish = %d, want 1", steps)
	}
	if len(tape.Events) != 0 {
		t.Fatalf("dispatched = %v, want none", tape.Events)
	}
}

func TestLiveInputSuppressedWhilePlaying(t *testing.T) {
	k, d, tape := newRig()
	if err := d.Load(input.Log{{Kind: input.KindMove, A: 1, B: 2}}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := d.Play(nil); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	d.PointerDownPrimary()
	d.MoveTo(99, 99)
	if len(tape.Events) != 0 {
		t.Fatalf("live events forwarded during playback: %v", tape.Events)
	}
	k.Step()
	k.Step()

	want := input.Log{{Kind: input.KindMove, A: 1, B: 2}}
	if !tape.Events.Equal(want) {
		t.Fatalf("dispatched = %v, want %v", tape.Events, want)
	}

	d.PointerDownPrimary()
	if n := len(tape.Events); n != 2 {
		t.Fatalf("live event after playback not forwarded, dispatched = %d", n)
	}
}

func TestModesAreExclusive(t *testing.T) {
	_, d, _ := newRig()
	if err := d.ArmRecording(); err != nil {
		t.Fatalf("ArmRecording() error = %v", err)
	}
	if err := d.Play(nil); !errors.Is(err, input.ErrRecording) {
		t.Fatalf("Play() while recording error = %v, want ErrRecording", err)
	}
	if err := d.Load(nil); !errors.Is(err, input.ErrRecording) {
		t.Fatalf("Load() while recording error = %v, want ErrRecording", err)
	}
	d.DisarmRecording()

	if err := d.Play(nil); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := d.ArmRecording(); !errors.Is(err, input.ErrPlaying) {
		t.Fatalf("ArmRecording() while playing error = %v, want ErrPlaying", err)
	}
	if err := d.Play(nil); !errors.Is(err, input.ErrPlaying) {
		t.Fatalf("Play() while playing error = %v, want ErrPlaying", err)
	}
}

func TestArmRecordingClearsPreviousLog(t *testing.T) {
	_, d, _ := newRig()
	if err := d.ArmRecording(); err != nil {
		t.Fatalf("ArmRecording() error = %v", err)
	}
	drive(d, sample)
	first := d.DisarmRecording()

	if err := d.ArmRecording(); err != nil {
		t.Fatalf("ArmRecording() error = %v", err)
	}
	d.DoubleClick()
	second := d.DisarmRecording()

	if len(second) != 1 || second[0].Kind != input.KindDoubleClick {
		t.Fatalf("second log = %v, want [double_click]", second)
	}
	if !first.Equal(sample) {
		t.Fatalf("first log was mutated: %v", first)
	}
}

func TestReplayedScrollUsesVerticalAxis(t *testing.T) {
	k, d, tape := newRig()
	if err := d.ArmRecording(); err != nil {
		t.Fatalf("ArmRecording() error = %v", err)
	}
	d.Scroll(240, 120, input.WheelHorizontal)
	log := d.DisarmRecording()
	if len(tape.Axes) != 1 || tape.Axes[0] != input.WheelHorizontal {
		t.Fatalf("live axis = %v, want horizontal", tape.Axes)
	}

	tape.Reset()
	if err := d.Load(log); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	runPlayback(t, k, d, 10)
	if len(tape.Axes) != 1 || tape.Axes[0] != input.WheelVertical {
		t.Fatalf("replayed axis = %v, want vertical", tape.Axes)
	}
}

func TestUnknownKindSkippedAtDispatch(t *testing.T) {
	k, d, tape := newRig()
	decoded, err := input.Decode(bytes.NewBufferString("42 1 1\n6 3 4\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := d.Load(decoded); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	runPlayback(t, k, d, 10)
	want := input.Log{{Kind: input.KindMove, A: 3, B: 4}}
	if !tape.Events.Equal(want) {
		t.Fatalf("dispatched = %v, want %v", tape.Events, want)
	}
}

func TestListenersNotifiedInRegistrationOrder(t *testing.T) {
	d := input.NewDispatcher(nil)
	var order []string
	d.AddListener(orderListener{Tape: &inputtest.Tape{}, name: "scene", out: &order})
	d.AddListener(orderListener{Tape: &inputtest.Tape{}, name: "overlay", out: &order})
	d.DoubleClick()
	if len(order) != 2 || order[0] != "scene" || order[1] != "overlay" {
		t.Fatalf("order = %v, want [scene overlay]", order)
	}
}

type orderListener struct {
	*inputtest.Tape
	name string
	out  *[]string
}

func (o orderListener) DoubleClick() { *o.out = append(*o.out, o.name) }
