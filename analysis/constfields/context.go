package constfields

import (
	"log"

	bc "github.com/cs-au-dk/jnames/bytecode"
	"github.com/cs-au-dk/jnames/utils"
)

type Field = bc.FieldEntry

// NamingContext is the state shared by all initializers of a naming run:
// the names claimed in every class, the names found more than once, and the
// pending links between fields.
type NamingContext struct {
	// used maps class and name to the field holding the name.
	used       map[string]map[string]Field
	duplicated map[string]map[string]bool
	links      map[Field]Field
	linkOrder  []Field
}

func NewNamingContext() *NamingContext {
	ctx := &NamingContext{}
	ctx.Reset()
	return ctx
}

func (ctx *NamingContext) Reset() {
	ctx.used = make(map[string]map[string]Field)
	ctx.duplicated = make(map[string]map[string]bool)
	ctx.links = make(map[Field]Field)
	ctx.linkOrder = nil
}

// IsDuplicated reports whether name was claimed twice in class.
func (ctx *NamingContext) IsDuplicated(class, name string) bool {
	return ctx.duplicated[class][name]
}

// Holder returns the field currently holding name in class.
func (ctx *NamingContext) Holder(class, name string) (Field, bool) {
	f, found := ctx.used[class][name]
	return f, found
}

// Claim gives name to field in names unless another field of the class
// already claimed it. A second claim marks the name duplicated: the earlier
// holder loses it and no field of the class can claim it again.
func (ctx *NamingContext) Claim(class, name string, field Field, names map[Field]string) bool {
	if ctx.duplicated[class][name] {
		log.Printf("Duplicate name %q for field %s", name, field)
		return false
	}

	used := ctx.used[class]
	if used == nil {
		used = make(map[string]Field)
		ctx.used[class] = used
	}

	holder, taken := used[name]
	if !taken {
		used[name] = field
		names[field] = name
		return true
	}

	log.Printf("Duplicate name %q for fields %s and %s", name, holder, field)
	delete(used, name)
	if names[holder] == name {
		delete(names, holder)
	}
	if ctx.duplicated[class] == nil {
		ctx.duplicated[class] = make(map[string]bool)
	}
	ctx.duplicated[class][name] = true
	return false
}

// Link records that from inherits the name of to. A later link of the same
// field replaces the earlier one.
func (ctx *NamingContext) Link(from, to Field) {
	if _, found := ctx.links[from]; !found {
		ctx.linkOrder = append(ctx.linkOrder, from)
	}
	ctx.links[from] = to
}

// Links returns a copy of the recorded links.
func (ctx *NamingContext) Links() map[Field]Field {
	res := make(map[Field]Field, len(ctx.links))
	for k, v := range ctx.links {
		res[k] = v
	}
	return res
}

// follow walks the links from field to the first field named in direct. It
// fails if the chain ends at an unnamed field or runs into a cycle.
func (ctx *NamingContext) follow(field Field, direct map[Field]string) (Field, bool) {
	seen := map[Field]bool{}
	for !seen[field] {
		if _, found := direct[field]; found {
			return field, true
		}
		seen[field] = true

		next, found := ctx.links[field]
		if !found {
			break
		}
		field = next
	}
	return Field{}, false
}

// claimLinked gives an inherited name to field. Inherited names never take a
// name away from another field: a name that is duplicated or already held in
// the class is refused.
func (ctx *NamingContext) claimLinked(class, name string, field Field, names map[Field]string) bool {
	if ctx.duplicated[class][name] {
		log.Printf("Duplicate name %q for linked field %s", name, field)
		return false
	}
	if holder, taken := ctx.used[class][name]; taken && holder != field {
		log.Printf("Name %q for linked field %s is held by %s", name, field, holder)
		return false
	}

	if ctx.used[class] == nil {
		ctx.used[class] = make(map[string]Field)
	}
	ctx.used[class][name] = field
	names[field] = name
	return true
}

// resolveLinks names every linked field after the field its chain ends at.
// Chains are followed over the names assigned directly, so a field never
// inherits a name that was itself inherited. Links are resolved in the order
// they were recorded.
func (ctx *NamingContext) resolveLinks(names map[Field]string) {
	direct := make(map[Field]string, len(names))
	for k, v := range names {
		direct[k] = v
	}

	for _, from := range ctx.linkOrder {
		if _, named := direct[from]; named {
			continue
		}
		target, ok := ctx.follow(from, direct)
		if !ok {
			utils.VerbosePrint("No name for %s: link chain does not end at a named field\n", from)
			continue
		}
		ctx.claimLinked(from.Owner, direct[target], from, names)
	}
}
