package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/rs/zerolog"
)

// GroupService is the review-group coordinator: it owns student groups,
// grader groups, and the bundles pairing them, and enforces the membership
// invariants on every write. Membership is validated at write time only;
// a student dropped from a class later stays in the group until an explicit
// membership update.
type GroupService struct {
	groups    GroupStore
	registry  ClassRegistry
	directory IdentityDirectory
	log       zerolog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups GroupStore, registry ClassRegistry, directory IdentityDirectory, log zerolog.Logger) *GroupService {
	return &GroupService{
		groups:    groups,
		registry:  registry,
		directory: directory,
		log:       log.With().Str("component", "group_service").Logger(),
	}
}

// ensureMembersEnrolled fails with a MembershipError listing every member
// id without an enrollment row in the class.
func (s *GroupService) ensureMembersEnrolled(ctx context.Context, classID uuid.UUID, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return nil
	}
	enrolled, err := s.registry.FilterEnrolledStudents(ctx, classID, memberIDs)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]bool, len(enrolled))
	for _, id := range enrolled {
		found[id] = true
	}
	var missing []uuid.UUID
	for _, id := range memberIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &model.MembershipError{Kind: "member", MissingIDs: missing}
	}
	return nil
}

// ensureGradersAssigned fails with a MembershipError listing every grader
// id absent from the class's instructor list.
func (s *GroupService) ensureGradersAssigned(class *model.Class, graderIDs []uuid.UUID) error {
	if len(graderIDs) == 0 {
		return nil
	}
	valid := make(map[uuid.UUID]bool, len(class.InstructorIDs))
	for _, id := range class.InstructorIDs {
		valid[id] = true
	}
	var invalid []uuid.UUID
	for _, id := range graderIDs {
		if !valid[id] {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return &model.MembershipError{Kind: "grader", MissingIDs: invalid}
	}
	return nil
}

// CreateStudentGroup creates a student group after validating that every
// member is enrolled in the class. Invalid ids are reported all at once.
func (s *GroupService) CreateStudentGroup(ctx context.Context, classID uuid.UUID, req model.CreateStudentGroupRequest) (*model.StudentGroupWithMembers, error) {
	if _, err := s.registry.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	memberIDs := req.MemberIDs
	if memberIDs == nil {
		memberIDs = []uuid.UUID{}
	}
	if err := s.ensureMembersEnrolled(ctx, classID, memberIDs); err != nil {
		return nil, err
	}

	group := &model.StudentGroup{
		ClassID:     classID,
		Name:        req.Name,
		Description: req.Description,
		MemberIDs:   memberIDs,
	}
	if err := s.groups.CreateStudentGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.decorateStudentGroup(ctx, group)
}

// UpdateStudentGroupMembers fully replaces a group's member set after the
// same enrollment validation as create.
func (s *GroupService) UpdateStudentGroupMembers(ctx context.Context, classID, groupID uuid.UUID, req model.UpdateStudentGroupMembersRequest) (*model.StudentGroupWithMembers, error) {
	if _, err := s.registry.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	if err := s.ensureMembersEnrolled(ctx, classID, req.MemberIDs); err != nil {
		return nil, err
	}

	group, err := s.groups.ReplaceStudentGroupMembers(ctx, classID, groupID, req.MemberIDs)
	if err != nil {
		return nil, err
	}
	return s.decorateStudentGroup(ctx, group)
}

// ListStudentGroups returns the class's student groups with member profiles
// resolved in a single directory lookup.
func (s *GroupService) ListStudentGroups(ctx context.Context, classID uuid.UUID) ([]model.StudentGroupWithMembers, error) {
	if _, err := s.registry.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	groups, err := s.groups.ListStudentGroups(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.decorateStudentGroups(ctx, groups)
}

// CreateGraderGroup creates a grader group after validating that every
// grader is in the class's instructor list.
func (s *GroupService) CreateGraderGroup(ctx context.Context, classID uuid.UUID, req model.CreateGraderGroupRequest) (*model.GraderGroupWithGraders, error) {
	class, err := s.registry.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureGradersAssigned(class, req.GraderIDs); err != nil {
		return nil, err
	}

	group := &model.GraderGroup{
		ClassID:     classID,
		Name:        req.Name,
		Description: req.Description,
		GraderIDs:   req.GraderIDs,
	}
	if err := s.groups.CreateGraderGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.decorateGraderGroup(ctx, group)
}

// UpdateGraderGroup partially updates a grader group. A new grader list is
// validated against the instructor list before the write.
func (s *GroupService) UpdateGraderGroup(ctx context.Context, classID, groupID uuid.UUID, req model.UpdateGraderGroupRequest) (*model.GraderGroupWithGraders, error) {
	class, err := s.registry.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	group, err := s.groups.GetGraderGroup(ctx, classID, groupID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.GraderIDs != nil {
		if err := s.ensureGradersAssigned(class, req.GraderIDs); err != nil {
			return nil, err
		}
		group.GraderIDs = req.GraderIDs
	}

	if err := s.groups.UpdateGraderGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.decorateGraderGroup(ctx, group)
}

// ListGraderGroups returns the class's grader groups with grader profiles
// resolved in a single directory lookup.
func (s *GroupService) ListGraderGroups(ctx context.Context, classID uuid.UUID) ([]model.GraderGroupWithGraders, error) {
	if _, err := s.registry.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	groups, err := s.groups.ListGraderGroups(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.decorateGraderGroups(ctx, groups)
}

// CreateGroupBundle pairs a student group with a grader group. Both groups
// must resolve within the bundle's class; a group that exists under another
// class is still a not-found failure.
func (s *GroupService) CreateGroupBundle(ctx context.Context, classID uuid.UUID, req model.CreateGroupBundleRequest) (*model.GroupBundleExpanded, error) {
	if _, err := s.registry.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	if _, err := s.groups.GetStudentGroup(ctx, classID, req.StudentGroupID); err != nil {
		return nil, err
	}
	if _, err := s.groups.GetGraderGroup(ctx, classID, req.GraderGroupID); err != nil {
		return nil, err
	}

	bundle := &model.GroupBundle{
		ClassID:        classID,
		StudentGroupID: req.StudentGroupID,
		GraderGroupID:  req.GraderGroupID,
		Notes:          req.Notes,
	}
	if err := s.groups.CreateBundle(ctx, bundle); err != nil {
		return nil, err
	}

	expanded, err := s.expandBundles(ctx, []model.GroupBundle{*bundle})
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// ListGroupBundles returns the class's bundles with both groups fully
// decorated.
func (s *GroupService) ListGroupBundles(ctx context.Context, classID uuid.UUID) ([]model.GroupBundleExpanded, error) {
	if _, err := s.registry.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	bundles, err := s.groups.ListBundles(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.expandBundles(ctx, bundles)
}

// decorateStudentGroups resolves all member profiles across the groups in
// one directory lookup and aligns them with each group's member list.
// Create, update, and bundle expansion all share this path.
func (s *GroupService) decorateStudentGroups(ctx context.Context, groups []model.StudentGroup) ([]model.StudentGroupWithMembers, error) {
	decorated := make([]model.StudentGroupWithMembers, 0, len(groups))
	if len(groups) == 0 {
		return decorated, nil
	}

	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, g := range groups {
		for _, id := range g.MemberIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	byID, err := s.resolveProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		members := make([]*model.User, len(g.MemberIDs))
		for i, id := range g.MemberIDs {
			members[i] = byID[id]
		}
		decorated = append(decorated, model.StudentGroupWithMembers{StudentGroup: g, Members: members})
	}
	return decorated, nil
}

func (s *GroupService) decorateStudentGroup(ctx context.Context, group *model.StudentGroup) (*model.StudentGroupWithMembers, error) {
	decorated, err := s.decorateStudentGroups(ctx, []model.StudentGroup{*group})
	if err != nil {
		return nil, err
	}
	return &decorated[0], nil
}

// decorateGraderGroups mirrors decorateStudentGroups for grader profiles.
func (s *GroupService) decorateGraderGroups(ctx context.Context, groups []model.GraderGroup) ([]model.GraderGroupWithGraders, error) {
	decorated := make([]model.GraderGroupWithGraders, 0, len(groups))
	if len(groups) == 0 {
		return decorated, nil
	}

	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, g := range groups {
		for _, id := range g.GraderIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	byID, err := s.resolveProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		graders := make([]*model.User, len(g.GraderIDs))
		for i, id := range g.GraderIDs {
			graders[i] = byID[id]
		}
		decorated = append(decorated, model.GraderGroupWithGraders{GraderGroup: g, Graders: graders})
	}
	return decorated, nil
}

func (s *GroupService) decorateGraderGroup(ctx context.Context, group *model.GraderGroup) (*model.GraderGroupWithGraders, error) {
	decorated, err := s.decorateGraderGroups(ctx, []model.GraderGroup{*group})
	if err != nil {
		return nil, err
	}
	return &decorated[0], nil
}

func (s *GroupService) resolveProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error) {
	users, err := s.directory.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

// expandBundles attaches both referenced groups, fully decorated, to each
// bundle. Group decoration reuses the shared paths above so the expansion
// cannot drift from the list endpoints.
func (s *GroupService) expandBundles(ctx context.Context, bundles []model.GroupBundle) ([]model.GroupBundleExpanded, error) {
	expanded := make([]model.GroupBundleExpanded, 0, len(bundles))
	if len(bundles) == 0 {
		return expanded, nil
	}

	var studentGroupIDs, graderGroupIDs []uuid.UUID
	seenStudent := make(map[uuid.UUID]bool)
	seenGrader := make(map[uuid.UUID]bool)
	for _, b := range bundles {
		if !seenStudent[b.StudentGroupID] {
			seenStudent[b.StudentGroupID] = true
			studentGroupIDs = append(studentGroupIDs, b.StudentGroupID)
		}
		if !seenGrader[b.GraderGroupID] {
			seenGrader[b.GraderGroupID] = true
			graderGroupIDs = append(graderGroupIDs, b.GraderGroupID)
		}
	}

	studentGroups, err := s.groups.ListStudentGroupsByIDs(ctx, studentGroupIDs)
	if err != nil {
		return nil, err
	}
	graderGroups, err := s.groups.ListGraderGroupsByIDs(ctx, graderGroupIDs)
	if err != nil {
		return nil, err
	}

	decoratedStudents, err := s.decorateStudentGroups(ctx, studentGroups)
	if err != nil {
		return nil, err
	}
	decoratedGraders, err := s.decorateGraderGroups(ctx, graderGroups)
	if err != nil {
		return nil, err
	}

	studentByID := make(map[uuid.UUID]*model.StudentGroupWithMembers, len(decoratedStudents))
	for i := range decoratedStudents {
		studentByID[decoratedStudents[i].ID] = &decoratedStudents[i]
	}
	graderByID := make(map[uuid.UUID]*model.GraderGroupWithGraders, len(decoratedGraders))
	for i := range decoratedGraders {
		graderByID[decoratedGraders[i].ID] = &decoratedGraders[i]
	}

	for _, b := range bundles {
		expanded = append(expanded, model.GroupBundleExpanded{
			GroupBundle:  b,
			StudentGroup: studentByID[b.StudentGroupID],
			GraderGroup:  graderByID[b.GraderGroupID],
		})
	}
	return expanded, nil
}
