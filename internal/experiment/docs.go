package experiment

const lorenzDoc = `# Lorenz attractor

Three coupled equations from a simplified model of atmospheric convection:

- dx/dt = σ(y − x)
- dy/dt = x(ρ − z) − y
- dz/dt = xy − βz

With σ = 10, ρ = 28, β = 8/3 the trajectory never settles and never repeats,
looping around two lobes. Integrated with explicit Euler from (0.01, 0, 0).
`

const aizawaDoc = `# Aizawa attractor

A six-coefficient flow that winds around a sphere-like surface and escapes
through a tube along the z axis.

- dx/dt = (z − b)x − dy
- dy/dt = dx + (z − b)y
- dz/dt = c + az − z³/3 − (x² + y²)(1 + ez) + fzx³
`

const pendulumDoc = `# Double pendulum ensemble

Ten double pendulums released from angles that differ by 0.001 rad. They move
together at first, then separate completely: sensitive dependence on initial
conditions, visible in a few seconds.

Gravity is a physical constant; **dt** scales how far each tick advances.
`

const ambientDoc = `# Ambient pendulums

Three slow double pendulums with short trails, spread 0.08 rad apart.
`

const cliffordDoc = `# Clifford attractor

An iterated map of the plane:

- x' = sin(a·y) + c·cos(a·x)
- y' = sin(b·x) + d·cos(b·y)

Each tick plots thousands of iterates; their density forms the image.
`

const diffusionDoc = `# Gray-Scott reaction-diffusion

Two chemicals diffuse across a grid. B consumes A to reproduce (A + 2B → 3B),
A is fed in and B is removed. Small changes to **feed** and **kill** switch
between coral, spots and stripes. Changes apply on the next sub-step without
restarting.
`

const boidsDoc = `# Boids

Each agent follows three local rules over neighbours within its view:

1. **Separation**: steer away from crowding neighbours.
2. **Alignment**: match the average heading.
3. **Cohesion**: move toward the local centre of mass.

Flocks emerge without a leader.
`

const langtonDoc = `# Langton's ant

On a clear cell the ant turns right, on a set cell it turns left; it flips
the cell and steps forward. After about ten thousand steps of apparent chaos
it builds a diagonal highway.
`

const epicycleDoc = `# Fourier epicycles

A closed shape is sampled, transformed with the FFT, and redrawn as a chain of
rotating circles sorted by radius. More harmonics give a sharper outline.
`

const fractalDoc = `# Fractal tree

Every branch splits into two shorter branches at a fixed angle. Wind bends the
thin outer branches more than the trunk.
`
