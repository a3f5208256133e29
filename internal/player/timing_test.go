package player_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/webdevguide/internal/player"
	"github.com/san-kum/webdevguide/internal/schedule"
	"github.com/san-kum/webdevguide/internal/sequence"
)

type position struct {
	Index  int
	Status player.Status
}

var _ = Describe("Player timing", func() {
	var (
		clock *schedule.Clock
		p     *player.Player[string]
		loop  bool
	)

	steps := []sequence.Step[string]{
		{ID: "A", Label: "A", DurationMs: 500},
		{ID: "B", Label: "B", DurationMs: 300},
		{ID: "C", Label: "C", DurationMs: 400},
	}

	now := func() position {
		s := p.Snapshot()
		return position{s.Index, s.Status}
	}

	// advanceTo moves the virtual clock to an absolute time in milliseconds.
	advanceTo := func(ms int) {
		target := time.Duration(ms) * time.Millisecond
		Expect(target).To(BeNumerically(">=", clock.Elapsed()))
		clock.Advance(target - clock.Elapsed())
	}

	JustBeforeEach(func() {
		clock = schedule.NewClock()
		var err error
		p, err = player.FromSteps(steps, player.Config{Loop: loop, Scheduler: clock.NewTimer()})
		Expect(err).NotTo(HaveOccurred())
	})

	Context("without loop", func() {
		BeforeEach(func() { loop = false })

		It("auto-advances through every step and completes", func() {
			p.Play()
			Expect(now()).To(Equal(position{0, player.Playing}))

			advanceTo(500)
			Expect(now()).To(Equal(position{1, player.Playing}))

			advanceTo(800)
			Expect(now()).To(Equal(position{2, player.Playing}))

			advanceTo(1199)
			Expect(now()).To(Equal(position{2, player.Playing}))

			advanceTo(1200)
			Expect(now()).To(Equal(position{2, player.Completed}))
			Expect(clock.Pending()).To(BeZero())
			Expect(p.Scheduled()).To(BeFalse())

			advanceTo(10000)
			Expect(now()).To(Equal(position{2, player.Completed}))
		})

		It("restarts the current step's full duration after pause and play", func() {
			p.Play()
			advanceTo(600)
			p.Pause()
			Expect(now()).To(Equal(position{1, player.Paused}))
			Expect(clock.Pending()).To(BeZero())

			advanceTo(900)
			Expect(now()).To(Equal(position{1, player.Paused}))

			p.Play()
			advanceTo(1100)
			Expect(now()).To(Equal(position{1, player.Playing}), "remaining time is not resumed")

			advanceTo(1200)
			Expect(now()).To(Equal(position{2, player.Playing}))

			advanceTo(1600)
			Expect(now()).To(Equal(position{2, player.Completed}))
		})

		It("restarts from the first step when played after completing", func() {
			p.Play()
			advanceTo(1200)
			Expect(now().Status).To(Equal(player.Completed))

			p.Play()
			Expect(now()).To(Equal(position{0, player.Playing}))
			advanceTo(1700)
			Expect(now()).To(Equal(position{1, player.Playing}))
		})

		It("publishes one snapshot per transition", func() {
			var seen []position
			p.Subscribe(func(s player.Snapshot[string]) {
				seen = append(seen, position{s.Index, s.Status})
			})

			p.Play()
			advanceTo(2000)

			Expect(seen).To(Equal([]position{
				{0, player.Playing},
				{1, player.Playing},
				{2, player.Playing},
				{2, player.Completed},
			}))
		})
	})

	Context("with loop", func() {
		BeforeEach(func() { loop = true })

		It("wraps to the first step and keeps playing", func() {
			p.Play()
			advanceTo(1200)
			Expect(now()).To(Equal(position{0, player.Playing}))

			for ms := 1200; ms <= 12000; ms += 100 {
				advanceTo(ms)
				Expect(now().Status).To(Equal(player.Playing))
				Expect(clock.Pending()).To(Equal(1))
			}
		})

		It("stops cycling only when paused", func() {
			p.Play()
			advanceTo(3000)
			p.Pause()
			paused := now()

			advanceTo(9000)
			Expect(now()).To(Equal(paused))
		})
	})

	Context("unsubscribed listeners", func() {
		BeforeEach(func() { loop = true })

		It("receive nothing after unsubscribing", func() {
			calls := 0
			sub := p.Subscribe(func(player.Snapshot[string]) { calls++ })

			p.Play()
			advanceTo(500)
			Expect(calls).To(Equal(2))

			sub.Unsubscribe()
			advanceTo(5000)
			p.StepForward()
			p.Reset()
			Expect(calls).To(Equal(2))
		})
	})
})
