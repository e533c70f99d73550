package simulation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
	"go.uber.org/mock/gomock"
)

// sliceSource replays a fixed list of entries.
type sliceSource struct {
	entries []trace.Entry
}

func (s *sliceSource) Next() (trace.Entry, error) {
	if len(s.entries) == 0 {
		return trace.Entry{}, io.EOF
	}

	e := s.entries[0]
	s.entries = s.entries[1:]

	return e, nil
}

func reads(addrs ...uint64) *sliceSource {
	s := &sliceSource{}
	for _, a := range addrs {
		s.entries = append(s.entries, trace.Entry{Kind: trace.Read, Address: a})
	}

	return s
}

func mustConfig(size, block uint64, assoc cache.Associativity) cache.Config {
	c, err := cache.NewConfig(size, block, assoc)
	Expect(err).NotTo(HaveOccurred())

	return c
}

func mustBuild(b Builder) *Simulator {
	s, err := b.Build()
	Expect(err).NotTo(HaveOccurred())

	return s
}

var twoWay = cache.Associativity{Kind: cache.NWay, Ways: 2}

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with a mocked tag array", func() {
		var (
			tags *MockTagArray
			s    *Simulator
		)

		BeforeEach(func() {
			tags = NewMockTagArray(mockCtrl)
			s = mustBuild(MakeBuilder().
				WithConfig(mustConfig(128, 16, twoWay)).
				WithTagArray(tags))
		})

		It("should not install on a hit", func() {
			tags.EXPECT().Lookup(uint64(0x40)).
				Return(cache.Block{SetID: 0, WayID: 1, IsValid: true}, true)

			r := s.Access(trace.Entry{Kind: trace.Read, Address: 0x40})

			Expect(r.Hit).To(BeTrue())
			Expect(r.WayID).To(Equal(1))
			Expect(s.Counters()).To(Equal(Counters{Hits: 1}))
		})

		It("should install exactly once after a miss", func() {
			gomock.InOrder(
				tags.EXPECT().Lookup(uint64(0x80)).Return(cache.Block{}, false),
				tags.EXPECT().Install(uint64(0x80)).Return(cache.Installation{
					Block:   cache.Block{Tag: 2, SetID: 0, WayID: 0, IsValid: true},
					Evicted: true,
					Victim:  cache.Block{Tag: 1, SetID: 0, WayID: 0, IsValid: true},
				}),
			)

			r := s.Access(trace.Entry{Kind: trace.Write, Address: 0x80})

			Expect(r.Hit).To(BeFalse())
			Expect(r.Evicted).To(BeTrue())
			Expect(r.EvictedTag).To(Equal(uint64(1)))
			Expect(r.Tag).To(Equal(uint64(2)))
			Expect(s.Counters()).To(Equal(Counters{
				MemoryReads:  1,
				MemoryWrites: 1,
				Misses:       1,
			}))
		})

		It("should reset the tag array and counters", func() {
			tags.EXPECT().Lookup(gomock.Any()).Return(cache.Block{}, true)
			tags.EXPECT().Reset()

			s.Access(trace.Entry{Kind: trace.Read, Address: 0})
			s.Reset()

			Expect(s.Counters()).To(BeZero())
		})
	})

	Context("with a failing source", func() {
		It("should return the error and no statistics", func() {
			src := NewMockEntrySource(mockCtrl)
			boom := errors.New("boom")
			gomock.InOrder(
				src.EXPECT().Next().Return(trace.Entry{Address: 0x10}, nil),
				src.EXPECT().Next().Return(trace.Entry{}, boom),
			)
			s := mustBuild(MakeBuilder().WithConfig(mustConfig(128, 16, twoWay)))

			counters, err := s.Run(src)

			Expect(err).To(MatchError(boom))
			Expect(counters).To(BeZero())
		})
	})

	It("should protect the hot line under LRU", func() {
		s := mustBuild(MakeBuilder().
			WithConfig(mustConfig(128, 16, twoWay)).
			WithPolicy(cache.LRU{}))

		counters, err := s.Run(reads(0x000, 0x040, 0x000, 0x080))
		Expect(err).NotTo(HaveOccurred())
		Expect(counters.Hits).To(Equal(uint64(1)))
		Expect(counters.Misses).To(Equal(uint64(3)))

		Expect(s.Access(trace.Entry{Address: 0x000}).Hit).To(BeTrue())
		Expect(s.Access(trace.Entry{Address: 0x040}).Hit).To(BeFalse())
	})

	It("should evict in insertion order under FIFO", func() {
		s := mustBuild(MakeBuilder().
			WithConfig(mustConfig(128, 16, twoWay)).
			WithPolicy(cache.FIFO{}))

		counters, err := s.Run(reads(0x000, 0x040, 0x000, 0x080))
		Expect(err).NotTo(HaveOccurred())
		Expect(counters.Hits).To(Equal(uint64(1)))
		Expect(counters.Misses).To(Equal(uint64(3)))

		Expect(s.Access(trace.Entry{Address: 0x040}).Hit).To(BeTrue())
		Expect(s.Access(trace.Entry{Address: 0x000}).Hit).To(BeFalse())
	})

	It("should count every write and a read per miss", func() {
		s := mustBuild(MakeBuilder().
			WithConfig(mustConfig(1024, 16, cache.Associativity{Kind: cache.DirectMapped})))
		src := &sliceSource{}
		for i := 0; i < 100; i++ {
			src.entries = append(src.entries, trace.Entry{
				Kind:    trace.Write,
				Address: uint64(i) * 1024,
			})
		}

		counters, err := s.Run(src)

		Expect(err).NotTo(HaveOccurred())
		Expect(counters).To(Equal(Counters{
			MemoryReads:  100,
			MemoryWrites: 100,
			Misses:       100,
		}))
	})

	It("should count writes that hit", func() {
		s := mustBuild(MakeBuilder().WithConfig(mustConfig(128, 16, twoWay)))
		src := &sliceSource{entries: []trace.Entry{
			{Kind: trace.Read, Address: 0x10},
			{Kind: trace.Write, Address: 0x14},
		}}

		counters, err := s.Run(src)

		Expect(err).NotTo(HaveOccurred())
		Expect(counters).To(Equal(Counters{
			MemoryReads:  1,
			MemoryWrites: 1,
			Hits:         1,
			Misses:       1,
		}))
		Expect(counters.Accesses()).To(Equal(uint64(2)))
		Expect(counters.HitRate()).To(BeNumerically("~", 0.5))
	})

	It("should give identical results for both policies when direct mapped", func() {
		var lines []string
		for i := 0; i < 500; i++ {
			lines = append(lines, fmt.Sprintf("R 0x%x", (i*7919)%4096))
		}
		text := strings.Join(lines, "\n")
		c := mustConfig(256, 16, cache.Associativity{Kind: cache.DirectMapped})

		fifo := mustBuild(MakeBuilder().WithConfig(c).WithPolicy(cache.FIFO{}))
		lru := mustBuild(MakeBuilder().WithConfig(c).WithPolicy(cache.LRU{}))

		fifoCounters, err := fifo.Run(trace.NewReader(strings.NewReader(text)))
		Expect(err).NotTo(HaveOccurred())
		lruCounters, err := lru.Run(trace.NewReader(strings.NewReader(text)))
		Expect(err).NotTo(HaveOccurred())

		Expect(fifoCounters).To(Equal(lruCounters))
	})

	It("should ignore everything after the end marker", func() {
		c := mustConfig(128, 16, twoWay)
		withGarbage := mustBuild(MakeBuilder().WithConfig(c))
		plain := mustBuild(MakeBuilder().WithConfig(c))

		a, err := withGarbage.Run(trace.NewReader(strings.NewReader(
			"R 0x0\nW 0x40\n#eof\nW 0x80\ngarbage\nR 0x0\n")).WithStrict(true))
		Expect(err).NotTo(HaveOccurred())
		b, err := plain.Run(trace.NewReader(strings.NewReader("R 0x0\nW 0x40\n")))
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("should invoke hooks after each access and at the end", func() {
		hook := NewMockHook(mockCtrl)
		s := mustBuild(MakeBuilder().
			WithConfig(mustConfig(128, 16, twoWay)).
			WithHook(hook))

		var positions []*HookPos
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
			Expect(ctx.Domain).To(BeIdenticalTo(s))
		}).Times(3)

		_, err := s.Run(reads(0x0, 0x0))

		Expect(err).NotTo(HaveOccurred())
		Expect(positions).To(Equal([]*HookPos{
			HookPosAccess, HookPosAccess, HookPosRunEnd,
		}))
	})

	It("should support independent simulators", func() {
		c := mustConfig(128, 16, twoWay)
		first := mustBuild(MakeBuilder().WithConfig(c))
		second := mustBuild(MakeBuilder().WithConfig(c))

		_, err := first.Run(reads(0x0, 0x0, 0x0))
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Counters()).To(BeZero())
		Expect(second.Tags().NumValid()).To(BeZero())
	})
})

var _ = Describe("Builder", func() {
	It("should require a config", func() {
		_, err := MakeBuilder().Build()

		Expect(err).To(HaveOccurred())
	})

	It("should reject an invalid config", func() {
		_, err := MakeBuilder().WithConfig(cache.Config{}).Build()

		var cfgErr *cache.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})

	It("should build an LRU simulator by default", func() {
		s := mustBuild(MakeBuilder().WithConfig(mustConfig(128, 16, twoWay)))

		Expect(s.Policy().Name()).To(Equal("lru"))
		Expect(s.Tags().NumSets()).To(Equal(4))
		Expect(s.Tags().NumWays()).To(Equal(2))
		Expect(s.Config().NumWays).To(Equal(2))
	})

	It("should not share hooks between builders", func() {
		base := MakeBuilder().WithConfig(mustConfig(128, 16, twoWay))
		a := mustBuild(base.WithHook(HookFunc(func(HookCtx) {})))
		b := mustBuild(base)

		Expect(a.NumHooks()).To(Equal(1))
		Expect(b.NumHooks()).To(BeZero())
	})
})
