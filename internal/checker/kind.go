package checker

import (
	"fmt"

	"github.com/nxgtri/funxycheck/internal/checkast"
	"github.com/nxgtri/funxycheck/internal/tenv"
	"github.com/nxgtri/funxycheck/internal/types"
)

// kindToTy translates one inline annotation (checkast.Kind) into the type
// it denotes, resolving bare names against the builtin primitive set first
// and falling back to a nominal Class reference.
func kindToTy(k checkast.Kind, ctx *tenv.Context) (types.Ty, error) {
	switch n := k.(type) {
	case *checkast.KindName:
		return kindName(n.Name, ctx)

	case *checkast.KindLiteral:
		if len(n.Ints) > 0 {
			return types.TIntLiterals(n.Ints...), nil
		}
		return types.TStrLiterals(n.Strings...), nil

	case *checkast.KindRecord:
		fields := map[types.Key]types.Slot{}
		for _, f := range n.Fields {
			ft, err := kindToTy(f.Kind, ctx)
			if err != nil {
				return types.Ty{}, err
			}
			if f.Optional {
				ft = ft.Union(types.TNil())
			}
			fields[types.StrKey(f.Name)] = types.NewSlot(types.FVar, ft)
		}
		return types.TTableFields(fields), nil

	case *checkast.KindTuple:
		fields := map[types.Key]types.Slot{}
		for i, e := range n.Elems {
			et, err := kindToTy(e, ctx)
			if err != nil {
				return types.Ty{}, err
			}
			fields[types.IntKey(int64(i+1))] = types.NewSlot(types.FVar, et)
		}
		return types.TTableFields(fields), nil

	case *checkast.KindArray:
		et, err := kindToTy(n.Elem, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		return types.TTableArray(types.SlotWithNil{Slot: types.NewSlot(types.FVar, et), Nilable: true}), nil

	case *checkast.KindMap:
		kt, err := kindToTy(n.Key, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		vt, err := kindToTy(n.Val, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		return types.TTableMap(kt, types.SlotWithNil{Slot: types.NewSlot(types.FVar, vt), Nilable: true}), nil

	case *checkast.KindFunction:
		args, err := kindSeq(n.Params, n.Vararg, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		rets, err := kindSeq(n.Returns, nil, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		return types.TFunction(types.Function{Args: args, Returns: rets}), nil

	case *checkast.KindUnion:
		var out types.Ty
		for i, m := range n.Members {
			mt, err := kindToTy(m, ctx)
			if err != nil {
				return types.Ty{}, err
			}
			if i == 0 {
				out = mt
			} else {
				out = out.Union(mt)
			}
		}
		return out, nil

	case *checkast.KindNullable:
		inner, err := kindToTy(n.Inner, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		return inner.Union(types.TNil()), nil

	case *checkast.KindAttr:
		inner, err := kindToTy(n.Inner, ctx)
		if err != nil {
			return types.Ty{}, err
		}
		switch n.Attr {
		case "require":
			return types.TBuiltinAttr(types.NewBuiltin(types.BuiltinRequire, inner), inner), nil
		case "subtype":
			return types.TBuiltinAttr(types.NewBuiltin(types.BuiltinSubtype, inner), inner), nil
		case "nosubtype":
			return types.TBuiltinAttr(types.NewBuiltin(types.BuiltinNoSubtype, inner), inner), nil
		default:
			return types.Ty{}, fmt.Errorf("unknown attribute %q", n.Attr)
		}

	default:
		return types.Ty{}, fmt.Errorf("unsupported annotation node %T", k)
	}
}

func kindSeq(ks []checkast.Kind, vararg checkast.Kind, ctx *tenv.Context) (types.TySeq, error) {
	fixed := make([]types.Ty, len(ks))
	for i, k := range ks {
		t, err := kindToTy(k, ctx)
		if err != nil {
			return types.TySeq{}, err
		}
		fixed[i] = t
	}
	seq := types.TySeq{Fixed: fixed}
	if vararg != nil {
		v, err := kindToTy(vararg, ctx)
		if err != nil {
			return types.TySeq{}, err
		}
		seq.Var = &v
	}
	return seq, nil
}

func kindName(name string, ctx *tenv.Context) (types.Ty, error) {
	switch name {
	case "Nil":
		return types.TNil(), nil
	case "True":
		return types.TTrue(), nil
	case "False":
		return types.TFalse(), nil
	case "Boolean":
		return types.TTrue().Union(types.TFalse()), nil
	case "Integer":
		return types.TInt(types.NumbersInt()), nil
	case "Number":
		return types.TInt(types.NumbersAll()), nil
	case "String":
		return types.TStr(types.StringsAll()), nil
	case "Table":
		return types.TTable(types.TablesAll()), nil
	case "Function":
		return types.TFunc(types.FunctionsAll()), nil
	case "Thread":
		return types.TThread(), nil
	case "Userdata":
		return types.TUserdata(), nil
	case "Any":
		return types.TAll(), nil
	default:
		return types.TClass(types.NewClass(name)), nil
	}
}
