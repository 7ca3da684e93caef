// Package orgsim builds randomized but invariant-preserving company
// directories for seeding sandbox worlds: a three-person leadership team
// with assistants, departmental teams that always hold at least one
// manager and one report, and a designated user placed wherever the
// scenario needs them.
package orgsim

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/worldbox/worldbox/internal/apps"
)

const (
	RoleCEO        = "CEO"
	RoleCOO        = "COO"
	RoleCFO        = "CFO"
	RoleManager    = "Manager"
	RoleTeamMember = "Team Member"
	RoleAssistant  = "Assistant"
)

var leadershipRoles = []string{RoleCEO, RoleCOO, RoleCFO}

const (
	TeamSalesMarketing = "sales_marketing"
	TeamEngineering    = "engineering"
	TeamFinance        = "finance"
	TeamLeadership     = "leadership"
	TeamAssistants     = "assistants"
)

// departmentTeams are the ordinary teams, in manager-assignment order.
var departmentTeams = []string{TeamSalesMarketing, TeamEngineering, TeamFinance}

// defaultOrgNames pads a caller-supplied name pool that is too small for
// the minimum viable organization.
var defaultOrgNames = []string{
	"Horace", "Mafalda", "Splendour", "Charm", "Sweethearta", "Robespierre",
	"Danton", "Marat", "Ileana", "Elina", "Spookington", "Jeeves",
}

// defaultExtensionNames pads team-extension name pools.
var defaultExtensionNames = []string{"Songoku", "Frodopop"}

const (
	defaultOrgMinMembers   = 12
	extendedTeamMinMembers = 2

	newHireProbability = 0.5
	maxHiredOnFixDate  = 2

	// defaultManagerProbability is the chance an extension hire comes in
	// as a manager rather than a team member.
	defaultManagerProbability = 0.2
)

var (
	leadershipStartDate = time.Date(2023, time.July, 23, 0, 0, 0, 0, time.UTC)
	fixedHireDate       = time.Date(2024, time.May, 22, 0, 0, 0, 0, time.UTC)
	veteranJoinedEnd    = time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	birthRangeStart     = time.Date(1979, time.January, 1, 0, 0, 0, 0, time.UTC)
	birthRangeEnd       = time.Date(2005, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Node is one employee while the organization is under construction.
// Relationships are held as live pointers here and flattened to
// identifier references only when written to the directory.
type Node struct {
	Name      string
	Team      string
	Role      string
	Manager   *Node
	Assistant *Node
	Reports   []*Node
	IsUser    bool

	fixHireDate bool
}

// Org is a fully built organization.
type Org struct {
	Leadership []*Node
	Teams      map[string][]*Node
	User       *Node
}

// Size counts every employee, assistants included.
func (o *Org) Size() int {
	n := len(o.Leadership) * 2
	for _, team := range o.Teams {
		n += len(team)
	}
	return n
}

// fixedHireCount counts team members already pinned to the fixed hire
// date.
func (o *Org) fixedHireCount(team string) int {
	n := 0
	for _, member := range o.Teams[team] {
		if member.fixHireDate {
			n++
		}
	}
	return n
}

// Builder constructs organizations from a deterministic random source.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder returns a builder seeded for reproducible output.
func NewBuilder(seed int64) *Builder {
	return &Builder{rng: rand.New(rand.NewSource(seed))}
}

func validUserRole(role string) bool {
	return slices.Contains(leadershipRoles, role) || role == RoleManager || role == RoleTeamMember
}

// padNames tops up a name pool to the minimum size with filler names. A
// short pool is never an error.
func padNames(names []string, filler []string, minMembers int) []string {
	for i := 0; len(names) < minMembers; i++ {
		names = append(names, filler[i%len(filler)])
	}
	return names
}

func pop(names *[]string) string {
	last := len(*names) - 1
	name := (*names)[last]
	*names = (*names)[:last]
	return name
}

// popSkipping takes a name off the pool, passing over the user's name so
// the user can be placed explicitly at the end.
func popSkipping(names *[]string, userName string) string {
	name := pop(names)
	if name == userName {
		next := pop(names)
		*names = append([]string{userName}, *names...)
		return next
	}
	return name
}

// BuildOrg creates an organization from the name pool, placing the user
// with the requested role and team. The pool is padded, never rejected,
// when too small for the minimum viable structure.
func (b *Builder) BuildOrg(names []string, userName, userTeam, userRole string) (*Org, error) {
	if !validUserRole(userRole) {
		return nil, fmt.Errorf("invalid user role %q", userRole)
	}
	if !slices.Contains(departmentTeams, userTeam) && userTeam != TeamLeadership {
		return nil, fmt.Errorf("invalid user team %q", userTeam)
	}

	pool := append([]string(nil), names...)
	pool = padNames(pool, defaultOrgNames, defaultOrgMinMembers)
	if !slices.Contains(pool, userName) {
		pool = append(pool, userName)
	}
	b.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	org := &Org{Teams: map[string][]*Node{}}
	ceo, coo, cfo := b.buildLeadership(&pool, userName, userRole)
	org.Leadership = []*Node{ceo, coo, cfo}

	managers := map[string]*Node{}
	for _, team := range departmentTeams {
		manager := &Node{
			Name: popSkipping(&pool, userName),
			Team: team,
			Role: RoleManager,
		}
		if team == TeamFinance {
			manager.Manager = cfo
			cfo.Reports = append(cfo.Reports, manager)
		} else {
			manager.Manager = coo
			coo.Reports = append(coo.Reports, manager)
		}
		org.Teams[team] = append(org.Teams[team], manager)
		managers[team] = manager
	}

	// Fill the user's team last so it cannot end up empty when the pool
	// runs dry.
	fillOrder := make([]string, 0, len(departmentTeams))
	for _, team := range departmentTeams {
		if team != userTeam {
			fillOrder = append(fillOrder, team)
		}
	}
	if userTeam != TeamLeadership {
		fillOrder = append(fillOrder, userTeam)
	}
	for len(pool) > 0 && !(len(pool) == 1 && pool[0] == userName) {
		for _, team := range fillOrder {
			if len(pool) == 0 || (len(pool) == 1 && pool[0] == userName) {
				break
			}
			member := &Node{
				Name:    popSkipping(&pool, userName),
				Team:    team,
				Role:    RoleTeamMember,
				Manager: managers[team],
			}
			org.Teams[team] = append(org.Teams[team], member)
			managers[team].Reports = append(managers[team].Reports, member)
		}
	}

	if slices.Contains(leadershipRoles, userRole) {
		switch userRole {
		case RoleCEO:
			org.User = ceo
		case RoleCOO:
			org.User = coo
		case RoleCFO:
			org.User = cfo
		}
		return org, nil
	}

	user := &Node{
		Name:    userName,
		Team:    userTeam,
		Role:    userRole,
		Manager: managers[userTeam],
		IsUser:  true,
	}
	org.Teams[userTeam] = append(org.Teams[userTeam], user)
	managers[userTeam].Reports = append(managers[userTeam].Reports, user)
	if userRole == RoleManager {
		// A manager-user always has someone to manage.
		report := &Node{
			Name:    "Rumplestinskin",
			Team:    userTeam,
			Role:    RoleTeamMember,
			Manager: user,
		}
		org.Teams[userTeam] = append(org.Teams[userTeam], report)
		user.Reports = append(user.Reports, report)
	}
	org.User = user
	return org, nil
}

func (b *Builder) buildLeadership(pool *[]string, userName, userRole string) (ceo, coo, cfo *Node) {
	take := func() string { return popSkipping(pool, userName) }
	userAs := func(role string) *Node {
		if i := slices.Index(*pool, userName); i >= 0 {
			*pool = slices.Delete(*pool, i, i+1)
		}
		return &Node{Name: userName, Team: TeamLeadership, Role: role, IsUser: true}
	}

	switch userRole {
	case RoleCEO:
		ceo = userAs(RoleCEO)
	case RoleCOO:
		coo = userAs(RoleCOO)
	case RoleCFO:
		cfo = userAs(RoleCFO)
	}
	if ceo == nil {
		ceo = &Node{Name: take(), Team: TeamLeadership, Role: RoleCEO}
	}
	if coo == nil {
		coo = &Node{Name: take(), Team: TeamLeadership, Role: RoleCOO}
	}
	if cfo == nil {
		cfo = &Node{Name: take(), Team: TeamLeadership, Role: RoleCFO}
	}
	ceo.Reports = []*Node{coo, cfo}
	coo.Manager = ceo
	cfo.Manager = ceo
	for _, leader := range []*Node{ceo, coo, cfo} {
		assistant := &Node{
			Name:    take(),
			Team:    TeamAssistants,
			Role:    RoleAssistant,
			Manager: leader,
		}
		leader.Assistant = assistant
	}
	return ceo, coo, cfo
}

// ExtendTeam grows a team in place. After extension the team always
// contains a manager who reports to another manager; one is synthesized
// from the pool when missing, so skip-level queries always have an
// answer.
func (b *Builder) ExtendTeam(org *Org, newNames []string, team string) error {
	return b.ExtendTeamWithProbability(org, newNames, team, defaultManagerProbability)
}

// ExtendTeamWithProbability is ExtendTeam with an explicit chance of each
// extra hire arriving as a manager.
func (b *Builder) ExtendTeamWithProbability(org *Org, newNames []string, team string, managerProbability float64) error {
	var managers []*Node
	for _, member := range org.Teams[team] {
		if member.Role == RoleManager {
			managers = append(managers, member)
		}
	}
	if len(managers) == 0 {
		return fmt.Errorf("team %q has no managers to extend", team)
	}
	pool := append([]string(nil), newNames...)
	pool = padNames(pool, defaultExtensionNames, extendedTeamMinMembers)

	hasSkipLevel := false
	for _, manager := range managers {
		for _, report := range manager.Reports {
			if report.Role == RoleManager {
				hasSkipLevel = true
			}
		}
	}
	if !hasSkipLevel {
		parent := managers[b.rng.Intn(len(managers))]
		newManager := &Node{
			Name:    pop(&pool),
			Team:    team,
			Role:    RoleManager,
			Manager: parent,
		}
		parent.Reports = append(parent.Reports, newManager)
		managers = append(managers, newManager)
		report := &Node{
			Name:    pop(&pool),
			Team:    team,
			Role:    RoleTeamMember,
			Manager: newManager,
		}
		newManager.Reports = append(newManager.Reports, report)
		org.Teams[team] = append(org.Teams[team], newManager, report)
	}

	for len(pool) > 0 {
		name := pop(&pool)
		role := RoleTeamMember
		if b.rng.Float64() < managerProbability && len(pool) > 0 {
			role = RoleManager
		}
		parent := managers[b.rng.Intn(len(managers))]
		for _, m := range managers {
			if len(m.Reports) == 0 {
				parent = m
				break
			}
		}
		hire := &Node{
			Name:        name,
			Team:        team,
			Role:        role,
			Manager:     parent,
			fixHireDate: org.fixedHireCount(team) < maxHiredOnFixDate,
		}
		parent.Reports = append(parent.Reports, hire)
		if role == RoleManager {
			managers = append(managers, hire)
		}
		org.Teams[team] = append(org.Teams[team], hire)
	}
	return nil
}

// WriteToDatabase flattens the organization into directory rows,
// descending from the CEO so every manager is written before their
// reports. Relationships are stored as identifiers only.
func (b *Builder) WriteToDatabase(org *Org) error {
	ids := map[*Node]string{}
	var collect func(n *Node)
	collect = func(n *Node) {
		ids[n] = uuid.NewString()
		for _, report := range n.Reports {
			collect(report)
		}
		if n.Assistant != nil {
			collect(n.Assistant)
		}
	}

	var ceo *Node
	for _, leader := range org.Leadership {
		if leader.Role == RoleCEO {
			ceo = leader
		}
	}
	if ceo == nil {
		return fmt.Errorf("organization has no CEO")
	}
	collect(ceo)

	var write func(n *Node) error
	write = func(n *Node) error {
		if err := apps.AddEmployees([]apps.Employee{b.record(n, ids)}); err != nil {
			return fmt.Errorf("failed to write employee %q: %w", n.Name, err)
		}
		for _, report := range n.Reports {
			if err := write(report); err != nil {
				return err
			}
		}
		if n.Assistant != nil {
			return write(n.Assistant)
		}
		return nil
	}
	return write(ceo)
}

// record fills in the generated contact details and dates for a node.
func (b *Builder) record(n *Node, ids map[*Node]string) apps.Employee {
	e := apps.Employee{
		EmployeeID:          ids[n],
		Name:                n.Name,
		EmailAddress:        fakeEmailAddress(n.Name),
		Mobile:              b.fakePhoneNumber(),
		Team:                n.Team,
		Role:                n.Role,
		VideoConferenceLink: fakeVideoLink(n.Name),
		JoinedDate:          b.joinedDate(n),
		BirthDate:           b.birthDate(),
		IsUser:              n.IsUser,
	}
	if n.Manager != nil {
		e.Manager = ids[n.Manager]
	}
	if n.Assistant != nil {
		e.Assistant = ids[n.Assistant]
	}
	for _, report := range n.Reports {
		e.Reports = append(e.Reports, ids[report])
	}
	return e
}

func (b *Builder) joinedDate(n *Node) time.Time {
	if slices.Contains(leadershipRoles, n.Role) {
		return leadershipStartDate
	}
	if n.fixHireDate {
		return fixedHireDate
	}
	if n.IsUser || b.rng.Float64() <= newHireProbability {
		return b.randomDate(leadershipStartDate, veteranJoinedEnd)
	}
	return b.randomDate(apps.Today().AddDate(0, 0, -30), apps.Today().AddDate(0, 0, -1))
}

// birthDate picks a birthday pinned to July or August so birthday-themed
// scenarios always have upcoming dates in a mid-year simulated world.
func (b *Builder) birthDate() time.Time {
	d := b.randomDate(birthRangeStart, birthRangeEnd)
	month := time.July
	if b.rng.Intn(2) == 1 {
		month = time.August
	}
	return time.Date(d.Year(), month, min(d.Day(), 28), 0, 0, 0, 0, time.UTC)
}

func (b *Builder) randomDate(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return start
	}
	return start.AddDate(0, 0, b.rng.Intn(days))
}
