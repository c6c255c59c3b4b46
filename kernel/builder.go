package kernel

import (
	"log"
	"math/rand"
	"time"

	"github.com/JStLouisCode/SYSC4001-A2-P3/config"
	"github.com/JStLouisCode/SYSC4001-A2-P3/memory"
	"github.com/JStLouisCode/SYSC4001-A2-P3/process"
	"github.com/JStLouisCode/SYSC4001-A2-P3/trace"
	"github.com/rs/xid"
)

// Builder can be used to build a Simulator.
type Builder struct {
	name       string
	tables     config.Tables
	partitions []int
	pool       *memory.Pool
	pids       process.PIDGenerator
	source     trace.Source
	random     DelaySource
	seed       int64
	seeded     bool
	logger     *log.Logger
}

// MakeBuilder creates a new builder with the default partitions.
func MakeBuilder() Builder {
	return Builder{
		name:       "Kernel",
		partitions: memory.DefaultCapacities,
	}
}

// WithName sets the name of the simulator.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithTables sets the vector table, the ISR delay table, and the program
// registry.
func (b Builder) WithTables(tables config.Tables) Builder {
	b.tables = tables
	return b
}

// WithPartitions sets the capacities of the memory partitions.
func (b Builder) WithPartitions(capacities ...int) Builder {
	b.partitions = capacities
	return b
}

// WithPool sets the memory of the simulator. It overrides WithPartitions.
func (b Builder) WithPool(pool *memory.Pool) Builder {
	b.pool = pool
	return b
}

// WithPIDGenerator sets where the pids of forked processes come from.
func (b Builder) WithPIDGenerator(pids process.PIDGenerator) Builder {
	b.pids = pids
	return b
}

// WithSource sets where the traces of exec'd programs are loaded from.
func (b Builder) WithSource(source trace.Source) Builder {
	b.source = source
	return b
}

// WithDelaySource sets where the random EXEC delays come from.
func (b Builder) WithDelaySource(random DelaySource) Builder {
	b.random = random
	return b
}

// WithSeed makes the random EXEC delays reproducible.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	b.seeded = true

	return b
}

// WithLogger sets the logger that reports forks and failed branches.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.name == "" {
		panic("simulator must have a name")
	}

	if b.source == nil {
		panic("trace source must be set")
	}

	if b.seeded && b.random != nil {
		panic("seed cannot be set together with a delay source")
	}
}

// Build builds the simulator.
func (b Builder) Build() *Simulator {
	b.parametersMustBeValid()

	s := &Simulator{
		name:     b.name,
		runID:    xid.New().String(),
		vectors:  b.tables.Vectors,
		delays:   b.tables.Delays,
		programs: b.tables.Programs,
		pool:     b.pool,
		pids:     b.pids,
		source:   b.source,
		random:   b.random,
		logger:   b.logger,
	}

	if s.pool == nil {
		s.pool = memory.NewPool(b.partitions...)
	}

	if s.pids == nil {
		s.pids = process.NewPIDGenerator()
	}

	if s.random == nil {
		seed := b.seed
		if !b.seeded {
			seed = time.Now().UnixNano()
		}

		s.random = rand.New(rand.NewSource(seed))
	}

	return s
}
