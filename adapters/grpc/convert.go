package grpc

import (
	"fmt"
	"strconv"

	"github.com/gruzdev-dev/codex-users/core/domain"

	"google.golang.org/protobuf/types/known/structpb"
)

// Struct numbers are float64, so the id travels as a decimal string to keep
// all 64 bits.
func userToStruct(u domain.User) *structpb.Struct {
	avatar := structpb.NewNullValue()
	if u.Avatar != nil {
		avatar = structpb.NewStringValue(*u.Avatar)
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"id":        structpb.NewStringValue(strconv.FormatUint(u.ID, 10)),
			"name":      structpb.NewStringValue(u.Name),
			"email":     structpb.NewStringValue(u.Email),
			"avatar":    avatar,
			"is_active": structpb.NewBoolValue(u.IsActive),
		},
	}
}

func userFromStruct(s *structpb.Struct) (domain.User, error) {
	fields := s.GetFields()

	rawID, ok := fields["id"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return domain.User{}, fmt.Errorf("%w: id must be a decimal string", domain.ErrInvalidInput)
	}
	id, err := strconv.ParseUint(rawID.StringValue, 10, 64)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: bad id %q", domain.ErrInvalidInput, rawID.StringValue)
	}

	user := domain.NewUser(id, fields["name"].GetStringValue(), fields["email"].GetStringValue())
	if avatar, ok := fields["avatar"].GetKind().(*structpb.Value_StringValue); ok {
		user = user.WithAvatar(avatar.StringValue)
	}
	if active, ok := fields["is_active"].GetKind().(*structpb.Value_BoolValue); ok {
		user.IsActive = active.BoolValue
	}
	return user, nil
}
